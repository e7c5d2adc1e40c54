package timer

import "pomodoro/timer/internal/model"

// Durations holds the configured phase lengths in seconds.
type Durations struct {
	Work  int `json:"workDurationSeconds"`
	Break int `json:"breakDurationSeconds"`
}

func (d Durations) For(phase model.Phase) int {
	if phase == model.PhaseBreak {
		return d.Break
	}
	return d.Work
}

func (d Durations) normalized() Durations {
	if d.Work < 1 {
		d.Work = 1
	}
	if d.Break < 1 {
		d.Break = 1
	}
	return d
}

// Countdown is the state of a single timer. Run identifies one countdown
// run and changes on every reset, so per-run flags never leak across runs.
type Countdown struct {
	Remaining int
	Phase     model.Phase
	Running   bool
	Run       uint64
	Warned    bool
}

func NewCountdown(d Durations) Countdown {
	d = d.normalized()
	return Countdown{
		Remaining: d.Work,
		Phase:     model.PhaseWork,
		Run:       1,
	}
}

type Cue string

const (
	CueStart   Cue = "start"
	CueWarning Cue = "warning"
)

type EffectKind string

const (
	EffectPlayCue       EffectKind = "play_cue"
	EffectStopCue       EffectKind = "stop_cue"
	EffectPhaseComplete EffectKind = "phase_complete"
)

// Effect is a side-effect intent produced by a transition. The transition
// functions never perform them; the engine's handler does.
type Effect struct {
	Kind            EffectKind
	Cue             Cue
	Phase           model.Phase
	DurationSeconds int
	Run             uint64
}

func Start(c Countdown) (Countdown, []Effect) {
	if c.Running {
		return c, nil
	}
	c.Running = true
	return c, []Effect{{Kind: EffectPlayCue, Cue: CueStart, Phase: c.Phase, Run: c.Run}}
}

func Pause(c Countdown) (Countdown, []Effect) {
	if !c.Running {
		return c, nil
	}
	c.Running = false
	return c, []Effect{{Kind: EffectStopCue, Cue: CueStart, Phase: c.Phase, Run: c.Run}}
}

func Toggle(c Countdown) (Countdown, []Effect) {
	if c.Running {
		return Pause(c)
	}
	return Start(c)
}

func ResetTo(c Countdown, phase model.Phase, d Durations) (Countdown, []Effect) {
	d = d.normalized()
	var effects []Effect
	if c.Running {
		effects = append(effects, Effect{Kind: EffectStopCue, Cue: CueStart, Phase: c.Phase, Run: c.Run})
	}
	return Countdown{
		Remaining: d.For(phase),
		Phase:     phase,
		Run:       c.Run + 1,
	}, effects
}

// Tick advances a running countdown by one second. On the zero-crossing it
// reports the completed phase and returns the idle countdown for the next one.
func Tick(c Countdown, d Durations) (Countdown, []Effect) {
	if !c.Running {
		return c, nil
	}

	var effects []Effect
	prev := c.Remaining
	if c.Remaining > 0 {
		c.Remaining--
	}
	// The warning needs to cross the threshold; phases that start inside it stay silent.
	crossed := prev > model.WarningThresholdSeconds && c.Remaining <= model.WarningThresholdSeconds
	if !c.Warned && crossed && c.Remaining > 0 {
		c.Warned = true
		effects = append(effects, Effect{Kind: EffectPlayCue, Cue: CueWarning, Phase: c.Phase, Run: c.Run})
	}
	if c.Remaining > 0 {
		return c, effects
	}

	d = d.normalized()
	effects = append(effects, Effect{
		Kind:            EffectPhaseComplete,
		Phase:           c.Phase,
		DurationSeconds: d.For(c.Phase),
		Run:             c.Run,
	})
	next := Countdown{
		Remaining: d.For(c.Phase.Opposite()),
		Phase:     c.Phase.Opposite(),
		Run:       c.Run + 1,
	}
	return next, effects
}

// ChangeDurations applies new durations to an idle or paused countdown
// immediately. A running countdown keeps its in-flight remaining time.
func ChangeDurations(c Countdown, d Durations) Countdown {
	if c.Running {
		return c
	}
	next, _ := ResetTo(c, c.Phase, d)
	return next
}
