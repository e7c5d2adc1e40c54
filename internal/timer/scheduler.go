package timer

import (
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned stop func is called.
// fn may still run once after stop when a tick was already due; callers
// must tolerate that.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

type tickerScheduler struct{}

func (tickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
