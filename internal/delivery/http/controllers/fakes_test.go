package controllers

import (
	"context"
	"io"
	"log/slog"

	"sporthive/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeActivityService implements domain.ActivityService for handler tests.
type fakeActivityService struct {
	err        error
	activity   *domain.Activity
	activities []*domain.Activity

	lastInput  *domain.NewActivityInput
	lastUpdate *domain.ActivityUpdate
	lastQuery  domain.ActivityQuery
	lastID     int64
	lastUser   *domain.AuthUser
}

func (f *fakeActivityService) Create(ctx context.Context, in *domain.NewActivityInput, user *domain.AuthUser) (*domain.Activity, error) {
	f.lastInput, f.lastUser = in, user
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Activity{
		ID:            1,
		Name:          in.Name,
		Condition:     domain.ConditionPending,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Capacity:      in.Capacity,
		OrganizerID:   user.ID,
		OrganizerName: user.Name,
	}, nil
}

func (f *fakeActivityService) List(ctx context.Context) ([]*domain.Activity, error) {
	return f.activities, f.err
}

func (f *fakeActivityService) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeActivityService) ListByOrganizerID(ctx context.Context, organizerID int64) ([]*domain.Activity, error) {
	f.lastID = organizerID
	return f.activities, f.err
}

func (f *fakeActivityService) Update(ctx context.Context, id int64, upd *domain.ActivityUpdate, user *domain.AuthUser) (*domain.Activity, error) {
	f.lastID, f.lastUpdate, f.lastUser = id, upd, user
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeActivityService) Approve(ctx context.Context, id int64, user *domain.AuthUser) (*domain.Activity, error) {
	f.lastID, f.lastUser = id, user
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeActivityService) Delete(ctx context.Context, id int64, user *domain.AuthUser) error {
	f.lastID, f.lastUser = id, user
	return f.err
}

func (f *fakeActivityService) Search(ctx context.Context, q domain.ActivityQuery) ([]*domain.Activity, error) {
	f.lastQuery = q
	return f.activities, f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	err          error
	registered   bool
	participants []*domain.Participant
	activities   []*domain.RegisteredActivity

	lastActivityID int64
	lastUserID     int64
}

func (f *fakeRegistrationService) Register(ctx context.Context, activityID int64, user *domain.AuthUser) (*domain.Registration, error) {
	f.lastActivityID, f.lastUserID = activityID, user.ID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: 9, UserID: user.ID, UserName: user.Name, ActivityID: activityID}, nil
}

func (f *fakeRegistrationService) Withdraw(ctx context.Context, activityID int64, user *domain.AuthUser) error {
	f.lastActivityID, f.lastUserID = activityID, user.ID
	return f.err
}

func (f *fakeRegistrationService) ListRegisteredActivities(ctx context.Context, userID int64) ([]*domain.RegisteredActivity, error) {
	f.lastUserID = userID
	return f.activities, f.err
}

func (f *fakeRegistrationService) ListParticipants(ctx context.Context, activityID int64) ([]*domain.Participant, error) {
	f.lastActivityID = activityID
	return f.participants, f.err
}

func (f *fakeRegistrationService) IsRegistered(ctx context.Context, userID, activityID int64) (bool, error) {
	f.lastActivityID, f.lastUserID = activityID, userID
	return f.registered, f.err
}
