package settings

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"pomodoro/timer/internal/model"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DurationsListener is notified after work or break lengths change.
type DurationsListener func(workSeconds, breakSeconds int)

// Store holds process-wide settings. Setters clamp instead of rejecting.
type Store struct {
	mu        sync.RWMutex
	settings  model.Settings
	listeners []DurationsListener
	intn      func(int) int
}

func Defaults() model.Settings {
	return model.Settings{
		WorkDurationSeconds:  model.DefaultWorkDurationSeconds,
		BreakDurationSeconds: model.DefaultBreakDurationSeconds,
		Presentation: model.Presentation{
			UseGradient:              true,
			BackgroundColor:          model.DefaultBackgroundColor,
			TextColor:                model.DefaultTextColor,
			GradientAnimationSeconds: model.DefaultGradientAnimationSeconds,
			Gradient:                 gradients[0].Name,
		},
	}
}

// NewStore validates initial against the defaults and returns a store holding it.
func NewStore(initial model.Settings) *Store {
	defaults := Defaults()
	settings := model.Settings{
		WorkDurationSeconds:  ClampDuration(initial.WorkDurationSeconds),
		BreakDurationSeconds: ClampDuration(initial.BreakDurationSeconds),
		Presentation:         mergePresentation(defaults.Presentation, initial.Presentation),
	}
	return &Store{settings: settings}
}

func (s *Store) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) OnDurationsChange(listener DurationsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Store) SetDurations(workSeconds, breakSeconds int) model.Settings {
	s.mu.Lock()
	s.settings.WorkDurationSeconds = ClampDuration(workSeconds)
	s.settings.BreakDurationSeconds = ClampDuration(breakSeconds)
	current := s.settings
	listeners := append([]DurationsListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(current.WorkDurationSeconds, current.BreakDurationSeconds)
	}
	return current
}

// SetDurationMinutes accepts raw user input in minutes. Anything that is not
// a positive number becomes one minute.
func (s *Store) SetDurationMinutes(workMinutes, breakMinutes any) model.Settings {
	return s.SetDurations(ParseMinutes(workMinutes)*60, ParseMinutes(breakMinutes)*60)
}

func (s *Store) SetPresentation(presentation model.Presentation) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Presentation = mergePresentation(s.settings.Presentation, presentation)
	return s.settings
}

// NextGradient switches the background to a random preset different from the current one.
func (s *Store) NextGradient() (model.Settings, model.Gradient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gradient := pickGradient(s.settings.Presentation.Gradient, s.intn)
	s.settings.Presentation.Gradient = gradient.Name
	return s.settings, gradient
}

func ClampDuration(seconds int) int {
	if seconds < model.MinDurationSeconds {
		return model.MinDurationSeconds
	}
	return seconds
}

func ClampAnimation(seconds int) int {
	if seconds < model.MinGradientAnimationSeconds {
		return model.MinGradientAnimationSeconds
	}
	if seconds > model.MaxGradientAnimationSeconds {
		return model.MaxGradientAnimationSeconds
	}
	return seconds
}

// ParseMinutes coerces decoded JSON input into whole minutes, at least one.
func ParseMinutes(raw any) int {
	var minutes int
	switch value := raw.(type) {
	case int:
		minutes = value
	case float64:
		if !math.IsNaN(value) && !math.IsInf(value, 0) && value < math.MaxInt32 {
			minutes = int(value)
		}
	case json.Number:
		if parsed, err := value.Int64(); err == nil && parsed < math.MaxInt32 {
			minutes = int(parsed)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			minutes = parsed
		}
	}
	if minutes < 1 {
		return 1
	}
	return minutes
}

func mergePresentation(current, next model.Presentation) model.Presentation {
	merged := model.Presentation{
		UseGradient:              next.UseGradient,
		BackgroundColor:          current.BackgroundColor,
		TextColor:                current.TextColor,
		GradientAnimationSeconds: current.GradientAnimationSeconds,
		Gradient:                 current.Gradient,
	}
	if colorPattern.MatchString(next.BackgroundColor) {
		merged.BackgroundColor = strings.ToLower(next.BackgroundColor)
	}
	if colorPattern.MatchString(next.TextColor) {
		merged.TextColor = strings.ToLower(next.TextColor)
	}
	if next.GradientAnimationSeconds != 0 {
		merged.GradientAnimationSeconds = ClampAnimation(next.GradientAnimationSeconds)
	}
	if _, ok := LookupGradient(next.Gradient); ok {
		merged.Gradient = next.Gradient
	}
	return merged
}
