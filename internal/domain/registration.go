package domain

import (
	"context"
	"time"
)

// Registration links a user to an activity they signed up for. UserName is a
// snapshot taken when registering.
// swagger:model Registration
type Registration struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	UserName         string    `json:"user_name"`
	ActivityID       int64     `json:"activity_id"`
	RegistrationTime time.Time `json:"registration_time"`
}

// NewRegistration returns a Registration for user on activityID. ID is set by the repository on create.
func NewRegistration(activityID int64, user *AuthUser, registeredAt time.Time) *Registration {
	return &Registration{
		UserID:           user.ID,
		UserName:         user.Name,
		ActivityID:       activityID,
		RegistrationTime: registeredAt,
	}
}

// RegisteredActivity is an activity together with the time the user registered for it.
// swagger:model RegisteredActivity
type RegisteredActivity struct {
	Activity
	RegistrationTime time.Time `json:"registration_time"`
}

// Participant is the public view of a registered user.
// swagger:model Participant
type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create fails with ErrAlreadyRegistered when (user, activity) already exists.
	Create(ctx context.Context, reg *Registration) error
	// Delete fails with ErrNotRegistered when no row matched.
	Delete(ctx context.Context, userID, activityID int64) error
	GetByUserAndActivity(ctx context.Context, userID, activityID int64) (*Registration, error)
	ListActivitiesByUserID(ctx context.Context, userID int64) ([]*RegisteredActivity, error)
	ListParticipantsByActivityID(ctx context.Context, activityID int64) ([]*Participant, error)
}

// TxRepositories are repositories bound to a single transaction.
type TxRepositories struct {
	Activities    ActivityRepository
	Registrations RegistrationRepository
}

// Transactor runs fn inside one Store transaction. The transaction commits
// if fn returns nil and rolls back otherwise.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// RegistrationService owns the capacity-safe register/withdraw workflow.
type RegistrationService interface {
	Register(ctx context.Context, activityID int64, user *AuthUser) (*Registration, error)
	Withdraw(ctx context.Context, activityID int64, user *AuthUser) error
	ListRegisteredActivities(ctx context.Context, userID int64) ([]*RegisteredActivity, error)
	ListParticipants(ctx context.Context, activityID int64) ([]*Participant, error)
	IsRegistered(ctx context.Context, userID, activityID int64) (bool, error)
}
