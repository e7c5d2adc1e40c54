package pubsub

import "time"

type EventType string

const (
	StateEvent    EventType = "state"
	CueEvent      EventType = "cue"
	SessionEvent  EventType = "session"
	SettingsEvent EventType = "settings"
)

type Event[T any] struct {
	Type      EventType `json:"type"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
