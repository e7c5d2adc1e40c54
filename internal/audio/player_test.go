package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/timer"
)

type failingPlayer struct{}

func (failingPlayer) Play(timer.Cue, model.Phase) error { return errors.New("autoplay denied") }
func (failingPlayer) Stop(timer.Cue, model.Phase) error { return nil }

func TestBroadcastPlayer_PublishesCue(t *testing.T) {
	broker := pubsub.NewBroker[any]()
	defer broker.Close()
	ch := broker.Subscribe(context.Background())

	player := NewBroadcastPlayer(broker, nil)
	require.NoError(t, player.Play(timer.CueWarning, model.PhaseWork))

	select {
	case event := <-ch:
		assert.Equal(t, pubsub.CueEvent, event.Type)
		assert.Equal(t, CueMessage{Cue: timer.CueWarning, Action: ActionPlay, Asset: "sounds/end.mp3", Phase: model.PhaseWork}, event.Payload)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for cue")
	}
}

func TestBroadcastPlayer_MissingAsset(t *testing.T) {
	broker := pubsub.NewBroker[any]()
	defer broker.Close()

	player := NewBroadcastPlayer(broker, map[timer.Cue]string{timer.CueStart: "tick.mp3"})
	require.NoError(t, player.Play(timer.CueStart, model.PhaseBreak))
	assert.EqualError(t, player.Play(timer.CueWarning, model.PhaseBreak), "no asset for cue warning")
}

func TestMulti_JoinsErrors(t *testing.T) {
	players := Multi{NewLogPlayer(zap.NewNop()), failingPlayer{}}

	err := players.Play(timer.CueStart, model.PhaseWork)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autoplay denied")
	assert.NoError(t, players.Stop(timer.CueStart, model.PhaseWork))
}
