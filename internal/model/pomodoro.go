package model

import "time"

type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusPaused  = "paused"
)

const (
	DefaultWorkDurationSeconds  = 45 * 60
	DefaultBreakDurationSeconds = 5 * 60
	MinDurationSeconds          = 60

	// WarningThresholdSeconds is how long before zero the ending-soon cue fires.
	WarningThresholdSeconds = 10
)

func (p Phase) Valid() bool {
	return p == PhaseWork || p == PhaseBreak
}

func (p Phase) Opposite() Phase {
	if p == PhaseBreak {
		return PhaseWork
	}
	return PhaseBreak
}

// Label is the human form used in the window title.
func (p Phase) Label() string {
	if p == PhaseBreak {
		return "Break"
	}
	return "Working"
}

type SessionEntry struct {
	ID              string    `json:"id"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationSeconds int       `json:"durationSeconds"`
	Type            Phase     `json:"type"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}
