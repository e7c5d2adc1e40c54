// Package audio turns cue intents from the timer into something a client can
// play. Playback happens in the browser; the server only announces cues.
package audio

import (
	"errors"

	"go.uber.org/zap"

	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/timer"
)

const (
	ActionPlay = "play"
	ActionStop = "stop"
)

var DefaultAssets = map[timer.Cue]string{
	timer.CueStart:   "sounds/tick.mp3",
	timer.CueWarning: "sounds/end.mp3",
}

type Player interface {
	Play(cue timer.Cue, phase model.Phase) error
	Stop(cue timer.Cue, phase model.Phase) error
}

type CueMessage struct {
	Cue    timer.Cue   `json:"cue"`
	Action string      `json:"action"`
	Asset  string      `json:"asset,omitempty"`
	Phase  model.Phase `json:"phase"`
}

// BroadcastPlayer publishes cue messages for connected clients.
type BroadcastPlayer struct {
	broker *pubsub.Broker[any]
	assets map[timer.Cue]string
}

func NewBroadcastPlayer(broker *pubsub.Broker[any], assets map[timer.Cue]string) *BroadcastPlayer {
	if assets == nil {
		assets = DefaultAssets
	}
	return &BroadcastPlayer{broker: broker, assets: assets}
}

func (p *BroadcastPlayer) Play(cue timer.Cue, phase model.Phase) error {
	asset, ok := p.assets[cue]
	if !ok || asset == "" {
		return errMissingAsset(cue)
	}
	p.broker.Publish(pubsub.CueEvent, CueMessage{Cue: cue, Action: ActionPlay, Asset: asset, Phase: phase})
	return nil
}

func (p *BroadcastPlayer) Stop(cue timer.Cue, phase model.Phase) error {
	p.broker.Publish(pubsub.CueEvent, CueMessage{Cue: cue, Action: ActionStop, Phase: phase})
	return nil
}

// LogPlayer records cues in the log. Useful when no client is attached.
type LogPlayer struct {
	logger *zap.Logger
}

func NewLogPlayer(logger *zap.Logger) *LogPlayer {
	return &LogPlayer{logger: logger.Named("audio")}
}

func (p *LogPlayer) Play(cue timer.Cue, phase model.Phase) error {
	p.logger.Debug("play cue", zap.String("cue", string(cue)), zap.String("phase", string(phase)))
	return nil
}

func (p *LogPlayer) Stop(cue timer.Cue, phase model.Phase) error {
	p.logger.Debug("stop cue", zap.String("cue", string(cue)), zap.String("phase", string(phase)))
	return nil
}

// Multi plays on every player and joins their errors.
type Multi []Player

func (m Multi) Play(cue timer.Cue, phase model.Phase) error {
	var errs []error
	for _, player := range m {
		if err := player.Play(cue, phase); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Stop(cue timer.Cue, phase model.Phase) error {
	var errs []error
	for _, player := range m {
		if err := player.Stop(cue, phase); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type missingAssetError struct {
	cue timer.Cue
}

func (e missingAssetError) Error() string {
	return "no asset for cue " + string(e.cue)
}

func errMissingAsset(cue timer.Cue) error {
	return missingAssetError{cue: cue}
}
