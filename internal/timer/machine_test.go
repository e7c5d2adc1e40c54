package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pomodoro/timer/internal/model"
)

var shortDurations = Durations{Work: 5, Break: 3}

func effectKinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, 0, len(effects))
	for _, effect := range effects {
		kinds = append(kinds, effect.Kind)
	}
	return kinds
}

func TestNewCountdown_StartsIdleInWork(t *testing.T) {
	c := NewCountdown(Durations{Work: 1500, Break: 300})

	assert.Equal(t, 1500, c.Remaining)
	assert.Equal(t, model.PhaseWork, c.Phase)
	assert.False(t, c.Running)
}

func TestStart_EmitsStartCueOnce(t *testing.T) {
	c := NewCountdown(shortDurations)

	c, effects := Start(c)
	require.True(t, c.Running)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPlayCue, effects[0].Kind)
	assert.Equal(t, CueStart, effects[0].Cue)

	c, effects = Start(c)
	assert.True(t, c.Running)
	assert.Empty(t, effects, "start while running is a no-op")
}

func TestPause_StopsStartCueAndKeepsRemaining(t *testing.T) {
	c := NewCountdown(shortDurations)
	c, _ = Start(c)
	c, _ = Tick(c, shortDurations)

	paused, effects := Pause(c)
	assert.False(t, paused.Running)
	assert.Equal(t, c.Remaining, paused.Remaining)
	assert.Equal(t, []EffectKind{EffectStopCue}, effectKinds(effects))

	_, effects = Pause(paused)
	assert.Empty(t, effects)
}

func TestToggle_FlipsRunning(t *testing.T) {
	c := NewCountdown(shortDurations)

	c, _ = Toggle(c)
	assert.True(t, c.Running)
	c, _ = Toggle(c)
	assert.False(t, c.Running)
}

func TestTick_NotRunningIsNoop(t *testing.T) {
	c := NewCountdown(shortDurations)

	next, effects := Tick(c, shortDurations)
	assert.Equal(t, c, next)
	assert.Empty(t, effects)
}

func TestTick_WarningCueFiresOncePerRun(t *testing.T) {
	d := Durations{Work: 12, Break: 3}
	c, _ := Start(NewCountdown(d))

	var warnings int
	for i := 0; i < 11; i++ {
		var effects []Effect
		c, effects = Tick(c, d)
		for _, effect := range effects {
			if effect.Cue == CueWarning {
				warnings++
				assert.Equal(t, model.WarningThresholdSeconds, c.Remaining)
			}
		}
	}
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 1, c.Remaining)
}

func TestTick_ShortPhaseNeverWarns(t *testing.T) {
	for _, seconds := range []int{5, model.WarningThresholdSeconds} {
		d := Durations{Work: seconds, Break: seconds}
		c, _ := Start(NewCountdown(d))

		for i := 0; i < seconds; i++ {
			var effects []Effect
			c, effects = Tick(c, d)
			for _, effect := range effects {
				assert.NotEqual(t, CueWarning, effect.Cue, "%ds phase at %d", seconds, c.Remaining)
			}
		}
	}
}

func TestTick_ZeroCrossingCompletesPhase(t *testing.T) {
	d := Durations{Work: 1500, Break: 300}
	c := Countdown{Remaining: 1, Phase: model.PhaseWork, Running: true, Run: 7, Warned: true}

	next, effects := Tick(c, d)

	require.Equal(t, []EffectKind{EffectPhaseComplete}, effectKinds(effects))
	assert.Equal(t, model.PhaseWork, effects[0].Phase)
	assert.Equal(t, 1500, effects[0].DurationSeconds)
	assert.Equal(t, uint64(7), effects[0].Run)

	assert.Equal(t, 300, next.Remaining)
	assert.Equal(t, model.PhaseBreak, next.Phase)
	assert.False(t, next.Running)
	assert.False(t, next.Warned)
	assert.Equal(t, uint64(8), next.Run)
}

func TestTick_CompletedStateDoesNotCompleteAgain(t *testing.T) {
	c := Countdown{Remaining: 1, Phase: model.PhaseWork, Running: true, Run: 1}

	next, effects := Tick(c, shortDurations)
	require.Len(t, effects, 1)

	_, effects = Tick(next, shortDurations)
	assert.Empty(t, effects)
}

func TestResetTo_AlwaysLoadsConfiguredDuration(t *testing.T) {
	c := Countdown{Remaining: 42, Phase: model.PhaseBreak, Running: true, Run: 3, Warned: true}

	next, effects := ResetTo(c, model.PhaseWork, shortDurations)

	assert.Equal(t, 5, next.Remaining)
	assert.Equal(t, model.PhaseWork, next.Phase)
	assert.False(t, next.Running)
	assert.False(t, next.Warned)
	assert.Equal(t, uint64(4), next.Run)
	assert.Equal(t, []EffectKind{EffectStopCue}, effectKinds(effects))
}

func TestChangeDurations(t *testing.T) {
	before := Durations{Work: 25 * 60, Break: 5 * 60}
	after := Durations{Work: 10 * 60, Break: 5 * 60}

	t.Run("idle countdown shows new duration", func(t *testing.T) {
		c := ChangeDurations(NewCountdown(before), after)
		assert.Equal(t, "10:00", Clock(c.Remaining))
	})

	t.Run("running countdown is untouched", func(t *testing.T) {
		c, _ := Start(NewCountdown(before))
		c, _ = Tick(c, before)

		next := ChangeDurations(c, after)
		assert.Equal(t, c, next)
		assert.Equal(t, 25*60-1, next.Remaining)
	})
}

func TestScenario_ShortWorkAndBreak(t *testing.T) {
	c := NewCountdown(shortDurations)
	var completions []Effect

	run := func(ticks int) {
		c, _ = Start(c)
		for i := 0; i < ticks; i++ {
			var effects []Effect
			c, effects = Tick(c, shortDurations)
			for _, effect := range effects {
				if effect.Kind == EffectPhaseComplete {
					completions = append(completions, effect)
				}
			}
		}
	}

	run(5)
	require.Len(t, completions, 1)
	assert.Equal(t, 5, completions[0].DurationSeconds)
	assert.Equal(t, model.PhaseWork, completions[0].Phase)
	assert.Equal(t, Countdown{Remaining: 3, Phase: model.PhaseBreak, Run: 2}, c)

	run(3)
	require.Len(t, completions, 2)
	assert.Equal(t, 3, completions[1].DurationSeconds)
	assert.Equal(t, model.PhaseBreak, completions[1].Phase)
	assert.Equal(t, 5, c.Remaining)
	assert.Equal(t, model.PhaseWork, c.Phase)
	assert.False(t, c.Running)
}

func countdownGen(d Durations) *rapid.Generator[Countdown] {
	return rapid.Custom(func(t *rapid.T) Countdown {
		phase := rapid.SampledFrom([]model.Phase{model.PhaseWork, model.PhaseBreak}).Draw(t, "phase")
		return Countdown{
			Remaining: rapid.IntRange(0, d.For(phase)).Draw(t, "remaining"),
			Phase:     phase,
			Running:   rapid.Bool().Draw(t, "running"),
			Run:       rapid.Uint64Range(1, 1000).Draw(t, "run"),
			Warned:    rapid.Bool().Draw(t, "warned"),
		}
	})
}

func durationsGen() *rapid.Generator[Durations] {
	return rapid.Custom(func(t *rapid.T) Durations {
		return Durations{
			Work:  rapid.IntRange(1, 90*60).Draw(t, "work"),
			Break: rapid.IntRange(1, 30*60).Draw(t, "break"),
		}
	})
}

func TestProperty_TickDecrementsByOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := durationsGen().Draw(t, "durations")
		c := countdownGen(d).Draw(t, "countdown")
		if !c.Running || c.Remaining <= 1 {
			t.Skip("not a plain running tick")
		}

		next, _ := Tick(c, d)
		if next.Remaining != c.Remaining-1 {
			t.Fatalf("remaining %d -> %d", c.Remaining, next.Remaining)
		}
		if next.Phase != c.Phase || next.Running != c.Running {
			t.Fatalf("phase or running changed: %+v -> %+v", c, next)
		}
	})
}

func TestProperty_TickNeverGoesNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := durationsGen().Draw(t, "durations")
		c := countdownGen(d).Draw(t, "countdown")
		ticks := rapid.IntRange(1, 50).Draw(t, "ticks")

		completions := 0
		for i := 0; i < ticks; i++ {
			var effects []Effect
			c, effects = Tick(c, d)
			if c.Remaining < 0 {
				t.Fatalf("negative remaining: %+v", c)
			}
			for _, effect := range effects {
				if effect.Kind == EffectPhaseComplete {
					completions++
				}
			}
		}
		if completions > 1 {
			t.Fatalf("expected at most one completion without a restart, got %d", completions)
		}
	})
}

func TestProperty_PauseStartRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := durationsGen().Draw(t, "durations")
		c := countdownGen(d).Draw(t, "countdown")
		c.Running = true

		paused, _ := Pause(c)
		resumed, _ := Start(paused)
		if resumed.Remaining != c.Remaining {
			t.Fatalf("remaining changed across pause/start: %d -> %d", c.Remaining, resumed.Remaining)
		}
	})
}

func TestProperty_ResetToWork(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := durationsGen().Draw(t, "durations")
		c := countdownGen(d).Draw(t, "countdown")

		next, _ := ResetTo(c, model.PhaseWork, d)
		if next.Remaining != d.Work || next.Running || next.Phase != model.PhaseWork {
			t.Fatalf("unexpected reset state %+v for durations %+v", next, d)
		}
	})
}
