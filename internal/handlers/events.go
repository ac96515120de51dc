package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/bus"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// eventBuffer is how many events a slow stream may fall behind before events are dropped
const eventBuffer = 64

// contentTopics is the set of topics the public stream carries
func contentTopics() map[string]bool {
	topics := make(map[string]bool)
	for _, key := range storage.ContentKeys() {
		topics[storage.Topic(key)] = true
	}
	return topics
}

// PublicEvents handles GET /api/events
// @Summary Stream content changes
// @Description Server-sent events, one per saved content document. The event name is the topic, the data is the document.
// @Tags Events
// @Produce text/event-stream
// @Success 200 {string} string
// @Router /events [get]
func (h *Handlers) PublicEvents(c *fiber.Ctx) error {
	return h.stream(c, contentTopics())
}

// AdminEvents handles GET /api/admin/events
// @Summary Stream every document change
// @Description Like /events, and also carries lead and webhook config changes
// @Tags Events
// @Produce text/event-stream
// @Success 200 {string} string
// @Security CookieAuth
// @Router /admin/events [get]
func (h *Handlers) AdminEvents(c *fiber.Ctx) error {
	return h.stream(c, nil)
}

// stream relays bus events to the client until it disconnects or Close is called.
// A nil allow set relays every topic.
func (h *Handlers) stream(c *fiber.Ctx, allow map[string]bool) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	events := make(chan bus.Event, eventBuffer)
	log := h.log.With(zap.String("remote", c.IP()))
	unsubscribe := h.bus.SubscribeAll(func(e bus.Event) {
		if allow != nil && !allow[e.Topic] {
			return
		}
		select {
		case events <- e:
		default:
			log.Warn("event stream is behind, event dropped", zap.String("topic", e.Topic))
		}
	})

	heartbeat := h.heartbeat
	closing := h.closing
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		if _, err := w.WriteString("retry: 3000\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-closing:
				return
			case e := <-events:
				if err := writeEvent(w, e); err != nil {
					log.Debug("event stream closed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// writeEvent writes one server-sent event and flushes it
func writeEvent(w *bufio.Writer, e bus.Event) error {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Topic, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Topic, data); err != nil {
		return err
	}
	return w.Flush()
}

// Close ends every open event stream
func (h *Handlers) Close() {
	h.closeOnce.Do(func() {
		close(h.closing)
	})
}
