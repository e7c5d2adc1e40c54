package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/service"
)

type EventsHandler struct {
	broker       *pubsub.Broker[any]
	timerService *service.TimerService
}

func NewEventsHandler(broker *pubsub.Broker[any], timerService *service.TimerService) *EventsHandler {
	return &EventsHandler{broker: broker, timerService: timerService}
}

// Stream sends the current state, then every published event, as SSE.
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events := h.broker.Subscribe(ctx)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent(string(pubsub.StateEvent), h.timerService.State())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event.Payload)
			return true
		}
	})
}
