package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProactiveActivity is one logged proactive initiative, kept for inspecting
// how often and about what the character reaches out.
type ProactiveActivity struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Subject   string    `db:"subject"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Store) StoreProactiveActivity(ctx context.Context, kind, subject string) error {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proactive_activity (id, kind, subject, created_at)
		VALUES (?, ?, ?, ?)
	`, id, kind, subject, time.Now())
	return err
}

func (s *Store) GetRecentProactiveActivities(ctx context.Context, limit int) ([]ProactiveActivity, error) {
	var activities []ProactiveActivity
	err := s.db.SelectContext(ctx, &activities, `
		SELECT id, kind, subject, created_at
		FROM proactive_activity
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	return activities, err
}
