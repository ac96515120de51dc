// repository.go
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

package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/localnerve/jam-build-landing/internal/storage"
	"go.uber.org/zap"
)

// ErrInvalidDocument wraps every rejected incoming document
var ErrInvalidDocument = errors.New("invalid document")

// Publisher announces saved documents
type Publisher interface {
	Publish(topic string, payload any)
}

// Repository is the typed access point for one stored document.
// Reads merge onto the default, writes replace the whole document and then publish it.
type Repository[T any] struct {
	store storage.Substrate
	pub   Publisher
	key   string
	def   func() T
	log   *zap.Logger
}

// NewRepository creates a Repository for key
func NewRepository[T any](store storage.Substrate, pub Publisher, key string, def func() T, log *zap.Logger) *Repository[T] {
	return &Repository[T]{
		store: store,
		pub:   pub,
		key:   key,
		def:   def,
		log:   log.Named("documents").With(zap.String("key", key)),
	}
}

func (r *Repository[T]) Key() string   { return r.key }
func (r *Repository[T]) Topic() string { return storage.Topic(r.key) }

// Default returns a fresh default document
func (r *Repository[T]) Default() T {
	return r.def()
}

// Get loads the document, absent or unreadable documents yield the default
func (r *Repository[T]) Get(ctx context.Context) T {
	raw, found := r.store.Load(ctx, r.key)
	if !found {
		return r.def()
	}
	return Decode(raw, r.def, r.log)
}

// Save overwrites the document and publishes it
func (r *Repository[T]) Save(ctx context.Context, v T) (uint64, error) {
	version, err := r.store.Save(ctx, r.key, v)
	if err != nil {
		return 0, err
	}
	r.pub.Publish(r.Topic(), v)
	return version, nil
}

// Update loads the current document, applies fn and saves the result when fn reports a change.
// The returned version is zero when nothing was written.
func (r *Repository[T]) Update(ctx context.Context, fn func(current T) (next T, changed bool, err error)) (T, uint64, error) {
	var result T
	version, changed, err := r.store.Mutate(ctx, r.key, func(raw json.RawMessage, found bool) (any, bool, error) {
		current := r.def()
		if found {
			current = Decode(raw, r.def, r.log)
		}
		next, changed, err := fn(current)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			result = current
			return nil, false, nil
		}
		result = next
		return next, true, nil
	})
	if err != nil {
		return result, 0, err
	}
	if changed {
		r.pub.Publish(r.Topic(), result)
	}
	return result, version, nil
}

// Reset writes the default document
func (r *Repository[T]) Reset(ctx context.Context) (T, uint64, error) {
	d := r.def()
	version, err := r.Save(ctx, d)
	return d, version, err
}

// Parse strictly decodes an incoming document onto the default
func (r *Repository[T]) Parse(raw json.RawMessage) (T, error) {
	v := r.def()
	if err := json.Unmarshal(raw, &v); err != nil {
		return r.def(), fmt.Errorf("%w %s: %w", ErrInvalidDocument, r.key, err)
	}
	return v, nil
}

// Document is the untyped view used by the generic data routes, backup and clear
type Document interface {
	Key() string
	Topic() string
	GetAny(ctx context.Context) any
	ReplaceJSON(ctx context.Context, raw json.RawMessage) (any, uint64, error)
	ResetAny(ctx context.Context) (any, uint64, error)
	DefaultAny() any
}

func (r *Repository[T]) GetAny(ctx context.Context) any { return r.Get(ctx) }

func (r *Repository[T]) DefaultAny() any { return r.def() }

func (r *Repository[T]) ReplaceJSON(ctx context.Context, raw json.RawMessage) (any, uint64, error) {
	v, err := r.Parse(raw)
	if err != nil {
		return nil, 0, err
	}
	version, err := r.Save(ctx, v)
	return v, version, err
}

func (r *Repository[T]) ResetAny(ctx context.Context) (any, uint64, error) {
	return r.Reset(ctx)
}
