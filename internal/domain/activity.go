package domain

import (
	"context"
	"time"
)

// Condition is the review/lifecycle state of an activity.
type Condition int

const (
	ConditionPending    Condition = 1
	ConditionRecruiting Condition = 2
	ConditionFinished   Condition = 3
)

func (c Condition) String() string {
	switch c {
	case ConditionPending:
		return "pending"
	case ConditionRecruiting:
		return "recruiting"
	case ConditionFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Activity is a sports event with a schedule, a capacity and an approval state.
// OrganizerName is a snapshot taken at creation; renaming the organizer later
// does not rewrite it.
// swagger:model Activity
type Activity struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Condition     Condition `json:"condition"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Capacity      int       `json:"capacity"`
	Participants  int       `json:"participants"`
	OrganizerID   int64     `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsFull reports whether no seat is left.
func (a *Activity) IsFull() bool {
	return a.Participants >= a.Capacity
}

// NewActivityInput holds the caller-provided fields of a new activity.
type NewActivityInput struct {
	Name        string
	Type        string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
}

// ActivityUpdate holds the fields an organizer may change. Nil fields keep their current value.
type ActivityUpdate struct {
	Name        *string
	Type        *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	Capacity    *int
}

// ActivityQuery filters a search. SearchText, when set, matches name or
// description and overrides Name and Description. Type always applies.
type ActivityQuery struct {
	SearchText  string
	Name        string
	Description string
	Type        string
}

// ActivityRepository defines the interface for activity storage.
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id int64) (*Activity, error)
	List(ctx context.Context) ([]*Activity, error)
	ListByOrganizerID(ctx context.Context, organizerID int64) ([]*Activity, error)
	Search(ctx context.Context, q ActivityQuery) ([]*Activity, error)
	// Update writes content fields and condition. It fails with
	// ErrCapacityBelowCurrent if the new capacity is below the stored participants.
	Update(ctx context.Context, a *Activity) error
	// Approve moves a Pending activity to Recruiting; ErrNotPending otherwise.
	Approve(ctx context.Context, id int64) (*Activity, error)
	Delete(ctx context.Context, id int64) error
	// IncrementParticipants takes a seat only while the activity is Recruiting
	// and below capacity; otherwise it returns ErrActivityFull.
	IncrementParticipants(ctx context.Context, id int64) error
	// DecrementParticipants releases a seat, never going below zero.
	DecrementParticipants(ctx context.Context, id int64) error
	// FinishExpired marks every non-finished activity that started before now as Finished.
	FinishExpired(ctx context.Context, now time.Time) (int64, error)
}

// ActivityService owns the activity state machine and its authorization rules.
type ActivityService interface {
	Create(ctx context.Context, in *NewActivityInput, user *AuthUser) (*Activity, error)
	List(ctx context.Context) ([]*Activity, error)
	GetByID(ctx context.Context, id int64) (*Activity, error)
	ListByOrganizerID(ctx context.Context, organizerID int64) ([]*Activity, error)
	Update(ctx context.Context, id int64, upd *ActivityUpdate, user *AuthUser) (*Activity, error)
	Approve(ctx context.Context, id int64, user *AuthUser) (*Activity, error)
	Delete(ctx context.Context, id int64, user *AuthUser) error
	Search(ctx context.Context, q ActivityQuery) ([]*Activity, error)
}
