// bus.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package bus

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-landing/internal/metrics"
	"go.uber.org/zap"
)

// Event is one change notification
type Event struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	Origin  string    `json:"origin"`
	At      time.Time `json:"at"`
}

// Handler receives events. Handlers run synchronously on the publisher's goroutine.
type Handler func(Event)

const wildcard = "*"

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is the in-process publish/subscribe channel.
// There is no queueing and no replay, late subscribers must load state themselves.
type Bus struct {
	instanceID string
	log        *zap.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

// New creates a Bus with a fresh instance id
func New(log *zap.Logger) *Bus {
	return &Bus{
		instanceID: uuid.NewString(),
		log:        log.Named("bus"),
		subs:       make(map[string][]subscription),
	}
}

// InstanceID identifies this process on the external signal
func (b *Bus) InstanceID() string {
	return b.instanceID
}

// Subscribe registers h for topic. The returned func removes it and may be called more than once.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		})
	}
}

// SubscribeAll registers h for every topic
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.Subscribe(wildcard, h)
}

// Publish announces a locally originated change
func (b *Bus) Publish(topic string, payload any) {
	b.Deliver(Event{
		Topic:   topic,
		Payload: payload,
		Origin:  b.instanceID,
		At:      time.Now().UTC(),
	})
}

// Deliver hands e to the topic subscribers, then the wildcard subscribers, in subscription order
func (b *Bus) Deliver(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic])+len(b.subs[wildcard]))
	for _, s := range b.subs[e.Topic] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.subs[wildcard] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(h, e)
	}
}

func (b *Bus) invoke(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BusHandlerPanics.WithLabelValues(e.Topic).Inc()
			b.log.Error("subscriber panicked",
				zap.String("topic", e.Topic),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	h(e)
}

// Local reports whether e was published by this process
func (b *Bus) Local(e Event) bool {
	return e.Origin == b.instanceID
}
