package timer

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"pomodoro/timer/internal/model"
)

const DefaultAppName = "Pomodoro"

// EffectHandler executes the intents produced by a transition. It is called
// after the engine lock is released, with the snapshot the effects belong to.
type EffectHandler interface {
	HandleEffects(snapshot Snapshot, effects []Effect)
}

type Options struct {
	AppName      string
	TickInterval time.Duration
	Scheduler    Scheduler
	Handler      EffectHandler
	Logger       *zap.Logger
}

type Snapshot struct {
	Phase                model.Phase `json:"phase"`
	Status               string      `json:"status"`
	Running              bool        `json:"running"`
	RemainingSeconds     int         `json:"remainingSeconds"`
	Clock                string      `json:"clock"`
	Title                string      `json:"title"`
	WorkDurationSeconds  int         `json:"workDurationSeconds"`
	BreakDurationSeconds int         `json:"breakDurationSeconds"`
	Revision             uint64      `json:"revision"`
}

// Engine owns one countdown and drives it from a scheduler while running.
type Engine struct {
	mu           sync.Mutex
	options      Options
	logger       *zap.Logger
	durations    Durations
	countdown    Countdown
	epoch        uint64
	stop         func()
	completedRun uint64
	revision     uint64
	closed       bool
}

func New(durations Durations, options Options) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Scheduler == nil {
		options.Scheduler = tickerScheduler{}
	}
	if options.AppName == "" {
		options.AppName = DefaultAppName
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	durations = durations.normalized()
	return &Engine{
		options:   options,
		logger:    logger.Named("timer"),
		durations: durations,
		countdown: NewCountdown(durations),
	}
}

// SetHandler wires the effect handler after construction. The service and
// the engine reference each other, so one side has to be set late.
func (e *Engine) SetHandler(handler EffectHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.options.Handler = handler
}

func (e *Engine) Start() Snapshot {
	return e.apply("start", func(c Countdown, _ Durations) (Countdown, []Effect) {
		return Start(c)
	})
}

func (e *Engine) Pause() Snapshot {
	return e.apply("pause", func(c Countdown, _ Durations) (Countdown, []Effect) {
		return Pause(c)
	})
}

func (e *Engine) Toggle() Snapshot {
	return e.apply("toggle", func(c Countdown, _ Durations) (Countdown, []Effect) {
		return Toggle(c)
	})
}

// Reset restarts the current phase.
func (e *Engine) Reset() Snapshot {
	return e.apply("reset", func(c Countdown, d Durations) (Countdown, []Effect) {
		return ResetTo(c, c.Phase, d)
	})
}

func (e *Engine) ResetTo(phase model.Phase) Snapshot {
	return e.apply("reset_to", func(c Countdown, d Durations) (Countdown, []Effect) {
		return ResetTo(c, phase, d)
	})
}

// Switch resets into the opposite phase without logging anything.
func (e *Engine) Switch() Snapshot {
	return e.apply("switch", func(c Countdown, d Durations) (Countdown, []Effect) {
		return ResetTo(c, c.Phase.Opposite(), d)
	})
}

// Tick advances the countdown by one second. It is a no-op unless running.
func (e *Engine) Tick() Snapshot {
	return e.apply("tick", func(c Countdown, d Durations) (Countdown, []Effect) {
		return Tick(c, d)
	})
}

func (e *Engine) ChangeDurations(durations Durations) Snapshot {
	e.mu.Lock()
	if e.closed {
		defer e.mu.Unlock()
		return e.snapshotLocked()
	}
	e.durations = durations.normalized()
	e.countdown = ChangeDurations(e.countdown, e.durations)
	e.revision++
	snapshot := e.snapshotLocked()
	handler := e.options.Handler
	e.mu.Unlock()

	if handler != nil {
		handler.HandleEffects(snapshot, nil)
	}
	return snapshot
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) Countdown() Countdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countdown
}

// Close cancels any pending tick. Every later transition and tick is a no-op.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.closed = true
}

func (e *Engine) apply(op string, transition func(Countdown, Durations) (Countdown, []Effect)) Snapshot {
	e.mu.Lock()
	if e.closed {
		snapshot := e.snapshotLocked()
		e.mu.Unlock()
		e.logger.Debug("ignoring transition on closed engine", zap.String("op", op))
		return snapshot
	}
	snapshot, effects, handler := e.applyLocked(op, transition)
	e.mu.Unlock()

	if handler != nil {
		handler.HandleEffects(snapshot, effects)
	}
	return snapshot
}

func (e *Engine) applyLocked(op string, transition func(Countdown, Durations) (Countdown, []Effect)) (Snapshot, []Effect, EffectHandler) {
	prev := e.countdown
	next, effects := transition(prev, e.durations)
	effects = e.guardCompletionLocked(effects)

	e.countdown = next
	if next != prev {
		e.revision++
	}
	e.syncScheduleLocked()

	if next.Running != prev.Running || next.Phase != prev.Phase || next.Run != prev.Run {
		e.logger.Debug("countdown transition",
			zap.String("op", op),
			zap.String("phase", string(next.Phase)),
			zap.Int("remaining", next.Remaining),
			zap.Bool("running", next.Running))
	}
	return e.snapshotLocked(), effects, e.options.Handler
}

// tickEpoch is the scheduled callback. A tick from a cancelled schedule
// carries an old epoch and is dropped.
func (e *Engine) tickEpoch(epoch uint64) {
	e.mu.Lock()
	if e.closed || epoch != e.epoch || !e.countdown.Running {
		e.mu.Unlock()
		e.logger.Debug("discarding stale tick", zap.Uint64("epoch", epoch))
		return
	}
	snapshot, effects, handler := e.applyLocked("tick", func(c Countdown, d Durations) (Countdown, []Effect) {
		return Tick(c, d)
	})
	e.mu.Unlock()

	if handler != nil {
		handler.HandleEffects(snapshot, effects)
	}
}

// guardCompletionLocked lets at most one phase-complete effect through per run.
func (e *Engine) guardCompletionLocked(effects []Effect) []Effect {
	kept := effects[:0:0]
	for _, effect := range effects {
		if effect.Kind == EffectPhaseComplete {
			if effect.Run == e.completedRun {
				e.logger.Warn("dropping duplicate phase completion",
					zap.Uint64("run", effect.Run),
					zap.String("phase", string(effect.Phase)))
				continue
			}
			e.completedRun = effect.Run
		}
		kept = append(kept, effect)
	}
	return kept
}

func (e *Engine) syncScheduleLocked() {
	if e.closed {
		return
	}
	if !e.countdown.Running {
		e.cancelLocked()
		return
	}
	if e.stop != nil {
		return
	}

	e.epoch++
	epoch := e.epoch
	e.stop = e.options.Scheduler.Every(e.options.TickInterval, func() {
		e.tickEpoch(epoch)
	})
}

func (e *Engine) cancelLocked() {
	if e.stop == nil {
		return
	}
	e.stop()
	e.stop = nil
	e.epoch++
}

func (e *Engine) snapshotLocked() Snapshot {
	c := e.countdown
	return Snapshot{
		Phase:                c.Phase,
		Status:               Status(c, e.durations),
		Running:              c.Running,
		RemainingSeconds:     c.Remaining,
		Clock:                Clock(c.Remaining),
		Title:                Title(c, e.options.AppName),
		WorkDurationSeconds:  e.durations.Work,
		BreakDurationSeconds: e.durations.Break,
		Revision:             e.revision,
	}
}
