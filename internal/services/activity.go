package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sporthive/internal/domain"
)

type activityService struct {
	activityRepo   domain.ActivityRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewActivityService creates an ActivityService backed by the given repository.
func NewActivityService(activityRepo domain.ActivityRepository, timeout time.Duration) domain.ActivityService {
	return &activityService{
		activityRepo:   activityRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// conditionAfterWrite is the condition a create or an owner edit lands in:
// privileged users skip review, everyone else goes back to Pending.
func conditionAfterWrite(user *domain.AuthUser) domain.Condition {
	if user.Permission.Exceeds(domain.PermissionStandard) {
		return domain.ConditionRecruiting
	}
	return domain.ConditionPending
}

func validateActivityFields(name string, capacity int) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewError(domain.ErrInvalidInput, "name is required")
	}
	if capacity <= 0 {
		return domain.NewError(domain.ErrInvalidInput, "capacity must be a positive integer")
	}
	return nil
}

func (s *activityService) Create(ctx context.Context, in *domain.NewActivityInput, user *domain.AuthUser) (*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !user.Permission.AtLeast(domain.PermissionStandard) {
		return nil, domain.NewError(domain.ErrPermissionDenied, "you are not allowed to create activities")
	}
	if err := validateActivityFields(in.Name, in.Capacity); err != nil {
		return nil, err
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, domain.NewError(domain.ErrInvalidTimeRange, "end time must be after start time")
	}
	if !in.StartTime.After(s.now()) {
		return nil, domain.NewError(domain.ErrInvalidTimeRange, "start time must be in the future")
	}

	a := &domain.Activity{
		Name:          strings.TrimSpace(in.Name),
		Condition:     conditionAfterWrite(user),
		Type:          strings.TrimSpace(in.Type),
		Description:   in.Description,
		Location:      in.Location,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Capacity:      in.Capacity,
		OrganizerID:   user.ID,
		OrganizerName: user.Name,
	}
	if err := s.activityRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *activityService) List(ctx context.Context) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (s *activityService) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getByID(ctx, id)
}

func (s *activityService) getByID(ctx context.Context, id int64) (*domain.Activity, error) {
	a, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *activityService) ListByOrganizerID(ctx context.Context, organizerID int64) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	activities, err := s.activityRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list activities by organizer: %w", err)
	}
	return activities, nil
}

// Update applies an owner edit. Every edit forces the condition back through
// review unless the owner is privileged, including edits of Finished activities.
func (s *activityService) Update(ctx context.Context, id int64, upd *domain.ActivityUpdate, user *domain.AuthUser) (*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OrganizerID != user.ID {
		return nil, domain.NewError(domain.ErrPermissionDenied, "you are not allowed to modify this activity")
	}

	if upd.Name != nil {
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Type != nil {
		a.Type = strings.TrimSpace(*upd.Type)
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Location != nil {
		a.Location = *upd.Location
	}
	if upd.StartTime != nil {
		a.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		a.EndTime = *upd.EndTime
	}
	if upd.Capacity != nil {
		a.Capacity = *upd.Capacity
	}
	if err := validateActivityFields(a.Name, a.Capacity); err != nil {
		return nil, err
	}
	if !a.StartTime.Before(a.EndTime) {
		return nil, domain.NewError(domain.ErrInvalidTimeRange, "end time must be after start time")
	}
	if a.Capacity < a.Participants {
		return nil, domain.ErrCapacityBelowCurrent
	}
	a.Condition = conditionAfterWrite(user)

	if err := s.activityRepo.Update(ctx, a); err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return a, nil
}

func (s *activityService) Approve(ctx context.Context, id int64, user *domain.AuthUser) (*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !user.Permission.AtLeast(domain.PermissionManager) {
		return nil, domain.NewError(domain.ErrPermissionDenied, "you are not allowed to review activities")
	}
	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Condition != domain.ConditionPending {
		return nil, domain.ErrNotPending
	}
	approved, err := s.activityRepo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrNotPending
		}
		return nil, fmt.Errorf("approve activity: %w", err)
	}
	return approved, nil
}

func (s *activityService) Delete(ctx context.Context, id int64, user *domain.AuthUser) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if a.OrganizerID != user.ID && !user.Permission.AtLeast(domain.PermissionManager) {
		return domain.NewError(domain.ErrPermissionDenied, "you are not allowed to delete this activity")
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrActivityNotFound
		}
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func (s *activityService) Search(ctx context.Context, q domain.ActivityQuery) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q.SearchText = strings.TrimSpace(q.SearchText)
	q.Name = strings.TrimSpace(q.Name)
	q.Description = strings.TrimSpace(q.Description)
	q.Type = strings.TrimSpace(q.Type)

	activities, err := s.activityRepo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search activities: %w", err)
	}
	return activities, nil
}
