package service

import (
	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/settings"
)

type SettingsService struct {
	store  *settings.Store
	broker *pubsub.Broker[any]
}

type GradientView struct {
	Settings model.Settings `json:"settings"`
	Gradient model.Gradient `json:"gradient"`
}

func NewSettingsService(store *settings.Store, broker *pubsub.Broker[any]) *SettingsService {
	return &SettingsService{store: store, broker: broker}
}

func (s *SettingsService) Get() model.Settings {
	return s.store.Get()
}

func (s *SettingsService) Gradients() []model.Gradient {
	return settings.Gradients()
}

// UpdateDurations takes raw minute values; the store clamps them and the
// timer picks them up through its durations listener.
func (s *SettingsService) UpdateDurations(workMinutes, breakMinutes any) model.Settings {
	updated := s.store.SetDurationMinutes(workMinutes, breakMinutes)
	s.broker.Publish(pubsub.SettingsEvent, updated)
	return updated
}

func (s *SettingsService) UpdatePresentation(presentation model.Presentation) model.Settings {
	updated := s.store.SetPresentation(presentation)
	s.broker.Publish(pubsub.SettingsEvent, updated)
	return updated
}

func (s *SettingsService) NextGradient() GradientView {
	updated, gradient := s.store.NextGradient()
	s.broker.Publish(pubsub.SettingsEvent, updated)
	return GradientView{Settings: updated, Gradient: gradient}
}
