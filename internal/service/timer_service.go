package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pomodoro/timer/internal/audio"
	apperrors "pomodoro/timer/internal/errors"
	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/settings"
	"pomodoro/timer/internal/timer"
)

const appendTimeout = 5 * time.Second

// TimerService runs the effects the engine asks for and publishes every
// state change. Cue and log failures are logged; they never stop the timer.
type TimerService struct {
	engine   *timer.Engine
	sessions *SessionService
	player   audio.Player
	broker   *pubsub.Broker[any]
	logger   *zap.Logger

	publishMu     sync.Mutex
	lastPublished uint64
}

type StateView struct {
	timer.Snapshot
	Draft string `json:"draft"`
}

func NewTimerService(
	engine *timer.Engine,
	sessions *SessionService,
	store *settings.Store,
	player audio.Player,
	broker *pubsub.Broker[any],
	logger *zap.Logger,
) *TimerService {
	s := &TimerService{
		engine:   engine,
		sessions: sessions,
		player:   player,
		broker:   broker,
		logger:   logger.Named("timer_service"),
	}
	engine.SetHandler(s)
	store.OnDurationsChange(func(workSeconds, breakSeconds int) {
		engine.ChangeDurations(timer.Durations{Work: workSeconds, Break: breakSeconds})
	})
	return s
}

func (s *TimerService) State() StateView {
	return s.view(s.engine.Snapshot())
}

func (s *TimerService) Start() StateView {
	return s.view(s.engine.Start())
}

func (s *TimerService) Pause() StateView {
	return s.view(s.engine.Pause())
}

func (s *TimerService) Toggle() StateView {
	return s.view(s.engine.Toggle())
}

// Reset restarts the given phase, or the current one when phase is empty.
func (s *TimerService) Reset(phase string) (*StateView, *apperrors.APIError) {
	if phase == "" {
		view := s.view(s.engine.Reset())
		return &view, nil
	}
	target := model.Phase(phase)
	if !target.Valid() {
		return nil, apperrors.BadRequest("invalid_phase", "phase must be one of work, break")
	}
	view := s.view(s.engine.ResetTo(target))
	return &view, nil
}

func (s *TimerService) Switch() StateView {
	return s.view(s.engine.Switch())
}

func (s *TimerService) SetDraft(description string) StateView {
	s.sessions.SetDraft(description)
	view := s.State()
	s.publishState(view)
	return view
}

func (s *TimerService) HandleEffects(snapshot timer.Snapshot, effects []timer.Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case timer.EffectPlayCue:
			if err := s.player.Play(effect.Cue, effect.Phase); err != nil {
				s.logger.Warn("play cue failed", zap.String("cue", string(effect.Cue)), zap.Error(err))
			}
		case timer.EffectStopCue:
			if err := s.player.Stop(effect.Cue, effect.Phase); err != nil {
				s.logger.Warn("stop cue failed", zap.String("cue", string(effect.Cue)), zap.Error(err))
			}
		case timer.EffectPhaseComplete:
			s.recordCompletion(effect)
		}
	}
	s.publishState(s.view(snapshot))
}

// publishState drops snapshots older than the last one sent. Effects run
// outside the engine lock, so a slow completion can finish after a newer
// transition has already been published.
func (s *TimerService) publishState(view StateView) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if view.Revision < s.lastPublished {
		s.logger.Debug("dropping stale state",
			zap.Uint64("revision", view.Revision),
			zap.Uint64("last_published", s.lastPublished))
		return
	}
	s.lastPublished = view.Revision
	s.broker.Publish(pubsub.StateEvent, view)
}

func (s *TimerService) recordCompletion(effect timer.Effect) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if _, err := s.sessions.Append(ctx, effect.Phase, effect.DurationSeconds); err != nil {
		s.logger.Error("append session",
			zap.String("phase", string(effect.Phase)),
			zap.Int("duration_seconds", effect.DurationSeconds),
			zap.Error(err))
	}
}

func (s *TimerService) view(snapshot timer.Snapshot) StateView {
	return StateView{Snapshot: snapshot, Draft: s.sessions.Draft()}
}
