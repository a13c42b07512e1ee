package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sporthive/internal/domain"
)

const activityColumns = `id, name, "condition", type, description, location, start_time, end_time, capacity, participants, organizer_id, organizer_name, created_at, updated_at`

type activityRepository struct {
	DB dbtx
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{
		DB: db,
	}
}

func scanActivity(row scanner, extra ...any) (*domain.Activity, error) {
	a := &domain.Activity{}
	dest := []any{
		&a.ID, &a.Name, &a.Condition, &a.Type, &a.Description, &a.Location,
		&a.StartTime, &a.EndTime, &a.Capacity, &a.Participants,
		&a.OrganizerID, &a.OrganizerName, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) queryActivities(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	query := `
		INSERT INTO activities (name, "condition", type, description, location, start_time, end_time, capacity, organizer_id, organizer_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, participants, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		a.Name, a.Condition, a.Type, a.Description, a.Location,
		a.StartTime, a.EndTime, a.Capacity, a.OrganizerID, a.OrganizerName,
	).Scan(&a.ID, &a.Participants, &a.CreatedAt, &a.UpdatedAt)
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) List(ctx context.Context) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities ORDER BY start_time DESC`
	return r.queryActivities(ctx, query)
}

func (r *activityRepository) ListByOrganizerID(ctx context.Context, organizerID int64) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE organizer_id = $1 ORDER BY start_time DESC`
	return r.queryActivities(ctx, query, organizerID)
}

func (r *activityRepository) Search(ctx context.Context, q domain.ActivityQuery) ([]*domain.Activity, error) {
	var conditions []string
	args := []any{}
	n := 1
	if q.SearchText != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, likePattern(q.SearchText))
		n++
	} else {
		if q.Name != "" {
			conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", n))
			args = append(args, likePattern(q.Name))
			n++
		}
		if q.Description != "" {
			conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", n))
			args = append(args, likePattern(q.Description))
			n++
		}
	}
	if q.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", n))
		args = append(args, q.Type)
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY start_time DESC`
	return r.queryActivities(ctx, query, args...)
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	query := `
		UPDATE activities
		SET name = $1, type = $2, description = $3, location = $4, start_time = $5, end_time = $6,
			capacity = $7, "condition" = $8, updated_at = NOW()
		WHERE id = $9 AND participants <= $7
		RETURNING participants, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.Name, a.Type, a.Description, a.Location, a.StartTime, a.EndTime,
		a.Capacity, a.Condition, a.ID,
	).Scan(&a.Participants, &a.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	// Either the row is gone or the capacity guard rejected the write.
	exists, err := r.exists(ctx, a.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrCapacityBelowCurrent
	}
	return domain.ErrActivityNotFound
}

func (r *activityRepository) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM activities WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *activityRepository) Approve(ctx context.Context, id int64) (*domain.Activity, error) {
	query := `
		UPDATE activities SET "condition" = $1, updated_at = NOW()
		WHERE id = $2 AND "condition" = $3
		RETURNING ` + activityColumns
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, domain.ConditionRecruiting, id, domain.ConditionPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotPending
		}
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM activities WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *activityRepository) IncrementParticipants(ctx context.Context, id int64) error {
	query := `
		UPDATE activities SET participants = participants + 1, updated_at = NOW()
		WHERE id = $1 AND participants < capacity AND "condition" = $2
	`
	result, err := r.DB.ExecContext(ctx, query, id, domain.ConditionRecruiting)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// The guard rejected the write; report why using the row as it is now.
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Condition != domain.ConditionRecruiting {
		return domain.ErrNotRecruiting
	}
	return domain.ErrActivityFull
}

func (r *activityRepository) DecrementParticipants(ctx context.Context, id int64) error {
	query := `
		UPDATE activities SET participants = participants - 1, updated_at = NOW()
		WHERE id = $1 AND participants > 0
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *activityRepository) FinishExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE activities SET "condition" = $1, updated_at = NOW()
		WHERE start_time < $2 AND "condition" <> $1
	`
	result, err := r.DB.ExecContext(ctx, query, domain.ConditionFinished, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
