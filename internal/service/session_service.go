package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "pomodoro/timer/internal/errors"
	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SessionService is the session log: completed phases, newest first.
type SessionService struct {
	repo      *repository.SessionRepository
	broker    *pubsub.Broker[any]
	logger    *zap.Logger
	retention int
	now       func() time.Time

	mu    sync.Mutex
	draft string
}

func NewSessionService(
	repo *repository.SessionRepository,
	broker *pubsub.Broker[any],
	retention int,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		repo:      repo,
		broker:    broker,
		logger:    logger.Named("sessions"),
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetDraft stores the description for the phase in progress. It is attached
// to the next completed entry and then cleared.
func (s *SessionService) SetDraft(description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = description
	return s.draft
}

func (s *SessionService) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// consumeDraft clears the draft once it is stored, unless it was edited meanwhile.
func (s *SessionService) consumeDraft(stored string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == stored {
		s.draft = ""
	}
}

// Append records a naturally completed phase. The interval ends now and
// spans the configured duration.
func (s *SessionService) Append(ctx context.Context, phase model.Phase, durationSeconds int) (*model.SessionEntry, error) {
	now := s.now()
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	entry := model.SessionEntry{
		ID:              id.String(),
		StartTime:       now.Add(-time.Duration(durationSeconds) * time.Second),
		EndTime:         now,
		DurationSeconds: durationSeconds,
		Type:            phase,
		Description:     s.Draft(),
		CreatedAt:       now,
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return nil, err
	}
	s.consumeDraft(entry.Description)

	if s.retention > 0 {
		removed, err := s.repo.Prune(ctx, s.retention)
		if err != nil {
			s.logger.Warn("prune session log", zap.Error(err))
		} else if removed > 0 {
			s.logger.Debug("pruned session log", zap.Int64("removed", removed), zap.Int("retention", s.retention))
		}
	}

	s.logger.Info("session completed",
		zap.String("id", entry.ID),
		zap.String("phase", string(entry.Type)),
		zap.Int("duration_seconds", entry.DurationSeconds))
	s.broker.Publish(pubsub.SessionEvent, entry)
	return &entry, nil
}

func (s *SessionService) UpdateDescription(ctx context.Context, id, description string) (*model.SessionEntry, *apperrors.APIError) {
	err := s.repo.UpdateDescription(ctx, id, description)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}
	if err != nil {
		s.logger.Error("update session description", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("failed to update session")
	}

	entry, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}
	s.broker.Publish(pubsub.SessionEvent, *entry)
	return entry, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.SessionEntry, *apperrors.APIError) {
	entry, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}
	if err != nil {
		s.logger.Error("get session", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("failed to get session")
	}
	return entry, nil
}

func (s *SessionService) List(ctx context.Context, limit int) ([]model.SessionEntry, *apperrors.APIError) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	sessions, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("list sessions", zap.Error(err))
		return nil, apperrors.Internal("failed to get history")
	}
	return sessions, nil
}
