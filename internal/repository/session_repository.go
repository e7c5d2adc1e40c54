package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pomodoro/timer/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Insert(ctx context.Context, entry *model.SessionEntry) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
			id, phase, duration_seconds, start_time, end_time, description, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Type),
		entry.DurationSeconds,
		formatTime(entry.StartTime),
		formatTime(entry.EndTime),
		entry.Description,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*model.SessionEntry, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, phase, duration_seconds, start_time, end_time, description, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

// UpdateDescription touches only the description column.
func (r *SessionRepository) UpdateDescription(ctx context.Context, id, description string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE sessions SET description = ? WHERE id = ?`,
		description,
		id,
	)
	if err != nil {
		return fmt.Errorf("update session description: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session description: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns entries newest first.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]model.SessionEntry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, phase, duration_seconds, start_time, end_time, description, created_at
		 FROM sessions
		 ORDER BY seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.SessionEntry, 0, limit)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// Prune keeps the newest keep entries and deletes the rest.
func (r *SessionRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM sessions
		 WHERE seq NOT IN (SELECT seq FROM sessions ORDER BY seq DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.SessionEntry, error) {
	session := model.SessionEntry{}
	var phase string
	var startTime string
	var endTime string
	var createdAt string
	err := s.Scan(
		&session.ID,
		&phase,
		&session.DurationSeconds,
		&startTime,
		&endTime,
		&session.Description,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	session.Type = model.Phase(phase)

	if session.StartTime, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("parse session start_time: %w", err)
	}
	if session.EndTime, err = parseTime(endTime); err != nil {
		return nil, fmt.Errorf("parse session end_time: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}

	return &session, nil
}
