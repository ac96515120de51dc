// store.go
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

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/localnerve/jam-build-landing/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// ErrWriteFailed wraps every failure to persist a document
var ErrWriteFailed = errors.New("storage write failed")

// MutateFunc transforms the current stored value into the next one.
// Returning changed=false skips the write.
type MutateFunc func(current json.RawMessage, found bool) (next any, changed bool, err error)

// Substrate is the named JSON document store shared by the public page and the admin
type Substrate interface {
	// Load never fails the caller, unreadable documents are reported absent
	Load(ctx context.Context, key string) (json.RawMessage, bool)
	Save(ctx context.Context, key string, value any) (uint64, error)
	Mutate(ctx context.Context, key string, fn MutateFunc) (uint64, bool, error)
	Remove(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}

// Store is the gorm backed Substrate
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a Store over an already migrated database
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{
		db:    db,
		log:   log.Named("storage"),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Store) silent(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)})
}

// Load reads the stored JSON for key
func (s *Store) Load(ctx context.Context, key string) (json.RawMessage, bool) {
	var doc models.Document
	err := s.silent(ctx).
		Clauses(hints.CommentBefore("select", "landing:load")).
		Where("document_key = ?", key).
		First(&doc).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("document load failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	raw := doc.DocumentValue.Raw()
	if len(raw) == 0 || !json.Valid(raw) {
		s.log.Warn("malformed document treated as absent", zap.String("key", key))
		return nil, false
	}
	return json.RawMessage(raw), true
}

// Save serializes value and writes it over the document at key, returning the new version
func (s *Store) Save(ctx context.Context, key string, value any) (uint64, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	return s.save(ctx, key, value)
}

// Mutate runs load, transform and save for key while holding the key lock
func (s *Store) Mutate(ctx context.Context, key string, fn MutateFunc) (uint64, bool, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	current, found := s.Load(ctx, key)
	next, changed, err := fn(current, found)
	if err != nil || !changed {
		return 0, false, err
	}

	version, err := s.save(ctx, key, next)
	if err != nil {
		return 0, false, err
	}
	return version, true, nil
}

func (s *Store) save(ctx context.Context, key string, value any) (uint64, error) {
	raw, err := encode(value)
	if err != nil {
		s.log.Error("document serialization failed", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}

	var version uint64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_key = ?", key).
			First(&doc).Error

		value := models.NewJSON(raw)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			version = 1
			return tx.Create(&models.Document{
				DocumentKey:     key,
				DocumentValue:   value,
				DocumentVersion: version,
			}).Error
		}
		if err != nil {
			return err
		}

		version = doc.DocumentVersion + 1
		return tx.Model(&doc).Updates(map[string]any{
			"document_value":   value,
			"document_version": version,
		}).Error
	})
	if err != nil {
		s.log.Error("document write failed", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}

	return version, nil
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return nil, errors.New("invalid JSON document")
		}
		return v, nil
	case []byte:
		if !json.Valid(v) {
			return nil, errors.New("invalid JSON document")
		}
		return v, nil
	}
	return json.Marshal(value)
}

// Remove deletes the documents at keys, missing keys are ignored
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("document_key IN ?", keys).
		Delete(&models.Document{}).Error
	if err != nil {
		s.log.Error("document remove failed", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Keys lists the stored document keys
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.silent(ctx).
		Model(&models.Document{}).
		Order("document_key").
		Pluck("document_key", &keys).Error
	return keys, err
}
