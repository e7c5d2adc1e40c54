package timer

import (
	"fmt"

	"pomodoro/timer/internal/model"
)

// Clock renders seconds as zero-padded MM:SS. Minutes are not wrapped at 60.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Title is the window title for the countdown: live while running, static otherwise.
func Title(c Countdown, appName string) string {
	if !c.Running {
		return appName + " Timer"
	}
	return fmt.Sprintf("%s - %s - %s", Clock(c.Remaining), c.Phase.Label(), appName)
}

func Status(c Countdown, d Durations) string {
	if c.Running {
		return model.StatusRunning
	}
	if c.Remaining == d.normalized().For(c.Phase) {
		return model.StatusIdle
	}
	return model.StatusPaused
}
