package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pomodoro/timer/internal/db"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/repository"
)

func newSessionService(t *testing.T, retention int) (*SessionService, *pubsub.Broker[any]) {
	t.Helper()

	database, err := db.OpenSQLite(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, db.Migrations()))

	broker := pubsub.NewBroker[any]()
	t.Cleanup(broker.Close)

	return NewSessionService(repository.NewSessionRepository(database), broker, retention, zap.NewNop()), broker
}

func subscribe(t *testing.T, broker *pubsub.Broker[any]) <-chan pubsub.Event[any] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return broker.Subscribe(ctx)
}

func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
