package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sporthive/internal/domain"
	"sporthive/internal/observability"
)

type registrationService struct {
	activityRepo     domain.ActivityRepository
	registrationRepo domain.RegistrationRepository
	tx               domain.Transactor
	emailService     domain.EmailService
	metrics          *observability.Metrics
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

// NewRegistrationService creates a RegistrationService. emailService and metrics may be nil.
func NewRegistrationService(
	activityRepo domain.ActivityRepository,
	registrationRepo domain.RegistrationRepository,
	tx domain.Transactor,
	emailService domain.EmailService,
	metrics *observability.Metrics,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &registrationService{
		activityRepo:     activityRepo,
		registrationRepo: registrationRepo,
		tx:               tx,
		emailService:     emailService,
		metrics:          metrics,
		logger:           logger,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

// resultOf maps a workflow error to a metrics label.
func resultOf(err error) string {
	var derr *domain.Error
	switch {
	case err == nil:
		return observability.ResultSuccess
	case errors.As(err, &derr):
		return observability.ResultRejected
	default:
		return observability.ResultError
	}
}

func (s *registrationService) Register(ctx context.Context, activityID int64, user *domain.AuthUser) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, activity, err := s.register(ctx, activityID, user)
	s.metrics.ObserveRegistration(resultOf(err))
	if err != nil {
		return nil, err
	}

	s.notifyRegistered(ctx, activity, user)
	return reg, nil
}

func (s *registrationService) register(ctx context.Context, activityID int64, user *domain.AuthUser) (*domain.Registration, *domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrActivityNotFound
		}
		return nil, nil, fmt.Errorf("get activity: %w", err)
	}
	if activity.Condition != domain.ConditionRecruiting {
		return nil, nil, domain.ErrNotRecruiting
	}
	if !user.Permission.AtLeast(domain.PermissionWarned) {
		return nil, nil, domain.NewError(domain.ErrPermissionDenied, "you are not allowed to register for activities")
	}
	if activity.IsFull() {
		return nil, nil, domain.ErrActivityFull
	}
	if _, err := s.registrationRepo.GetByUserAndActivity(ctx, user.ID, activityID); err == nil {
		return nil, nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("check registration: %w", err)
	}

	// The guarded increment re-validates capacity and condition and holds the
	// activity row lock until commit; the unique index catches duplicate races.
	reg := domain.NewRegistration(activityID, user, s.now().UTC())
	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos domain.TxRepositories) error {
		if err := repos.Activities.IncrementParticipants(ctx, activityID); err != nil {
			return err
		}
		return repos.Registrations.Create(ctx, reg)
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("register: %w", err)
	}
	activity.Participants++
	return reg, activity, nil
}

func (s *registrationService) Withdraw(ctx context.Context, activityID int64, user *domain.AuthUser) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	activity, err := s.withdraw(ctx, activityID, user)
	s.metrics.ObserveWithdrawal(resultOf(err))
	if err != nil {
		return err
	}

	s.notifyWithdrawn(ctx, activity, user)
	return nil
}

func (s *registrationService) withdraw(ctx context.Context, activityID int64, user *domain.AuthUser) (*domain.Activity, error) {
	if _, err := s.registrationRepo.GetByUserAndActivity(ctx, user.ID, activityID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("check registration: %w", err)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos domain.TxRepositories) error {
		if err := repos.Registrations.Delete(ctx, user.ID, activityID); err != nil {
			return err
		}
		return repos.Activities.DecrementParticipants(ctx, activityID)
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		// The withdrawal is committed; only the notification depends on this read.
		s.logger.WarnContext(ctx, "withdraw: reload activity", "activity_id", activityID, "error", err)
		return nil, nil
	}
	return activity, nil
}

func (s *registrationService) notifyRegistered(ctx context.Context, activity *domain.Activity, user *domain.AuthUser) {
	if s.emailService == nil || user.Email == "" {
		return
	}
	err := s.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{
		Email:        user.Email,
		UserName:     user.Name,
		ActivityName: activity.Name,
		Location:     activity.Location,
		StartTime:    activity.StartTime,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "registration confirmation email failed",
			"activity_id", activity.ID, "user_id", user.ID, "error", err)
	}
}

func (s *registrationService) notifyWithdrawn(ctx context.Context, activity *domain.Activity, user *domain.AuthUser) {
	if s.emailService == nil || activity == nil || user.Email == "" {
		return
	}
	err := s.emailService.SendWithdrawalConfirmation(ctx, &domain.WithdrawalEmailData{
		Email:        user.Email,
		UserName:     user.Name,
		ActivityName: activity.Name,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "withdrawal confirmation email failed",
			"activity_id", activity.ID, "user_id", user.ID, "error", err)
	}
}

func (s *registrationService) ListRegisteredActivities(ctx context.Context, userID int64) ([]*domain.RegisteredActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	activities, err := s.registrationRepo.ListActivitiesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registered activities: %w", err)
	}
	return activities, nil
}

func (s *registrationService) ListParticipants(ctx context.Context, activityID int64) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	participants, err := s.registrationRepo.ListParticipantsByActivityID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (s *registrationService) IsRegistered(ctx context.Context, userID, activityID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.registrationRepo.GetByUserAndActivity(ctx, userID, activityID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check registration: %w", err)
	}
}
