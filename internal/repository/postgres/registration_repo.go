package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sporthive/internal/domain"
)

type registrationRepository struct {
	DB dbtx
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (user_id, user_name, activity_id, registration_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.UserID, reg.UserName, reg.ActivityID, reg.RegistrationTime).
		Scan(&reg.ID)
	switch pqCode(err) {
	case pqUniqueViolation:
		return domain.ErrAlreadyRegistered
	case pqForeignKeyViolation:
		return domain.ErrActivityNotFound
	}
	return err
}

func (r *registrationRepository) Delete(ctx context.Context, userID, activityID int64) error {
	query := `DELETE FROM registrations WHERE user_id = $1 AND activity_id = $2`
	result, err := r.DB.ExecContext(ctx, query, userID, activityID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

func (r *registrationRepository) GetByUserAndActivity(ctx context.Context, userID, activityID int64) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, user_name, activity_id, registration_time
		FROM registrations
		WHERE user_id = $1 AND activity_id = $2
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, activityID).
		Scan(&reg.ID, &reg.UserID, &reg.UserName, &reg.ActivityID, &reg.RegistrationTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotRegistered
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListActivitiesByUserID(ctx context.Context, userID int64) ([]*domain.RegisteredActivity, error) {
	query := `
		SELECT a.id, a.name, a."condition", a.type, a.description, a.location, a.start_time, a.end_time,
			a.capacity, a.participants, a.organizer_id, a.organizer_name, a.created_at, a.updated_at,
			r.registration_time
		FROM registrations AS r
		JOIN activities AS a ON r.activity_id = a.id
		WHERE r.user_id = $1
		ORDER BY r.registration_time DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.RegisteredActivity
	for rows.Next() {
		var registeredAt time.Time
		a, err := scanActivity(rows, &registeredAt)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.RegisteredActivity{Activity: *a, RegistrationTime: registeredAt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.RegisteredActivity{}
	}
	return out, nil
}

func (r *registrationRepository) ListParticipantsByActivityID(ctx context.Context, activityID int64) ([]*domain.Participant, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM registrations AS r
		JOIN users AS u ON r.user_id = u.id
		WHERE r.activity_id = $1
		ORDER BY r.registration_time
	`
	rows, err := r.DB.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
