// Package collections implements the add/update/delete/config flow shared by
// the FAQ, testimonial and gallery documents.
package collections

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-landing/internal/documents"
)

var (
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrUnknownField         = errors.New("unknown field")
	ErrInvalidValue         = errors.New("invalid value")
	ErrIndexOutOfRange      = errors.New("item index out of range")
)

// NewID returns a timestamp derived item id
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Admin runs every mutation as load, pure transform, save whole document, publish
type Admin[T documents.Item] struct {
	repo        *documents.Repository[documents.Collection[T]]
	placeholder func(id string) T
	indicator   *SaveIndicator
	now         func() time.Time
}

// NewAdmin creates an Admin. placeholder builds the item appended by Add.
func NewAdmin[T documents.Item](repo *documents.Repository[documents.Collection[T]], placeholder func(id string) T) *Admin[T] {
	return &Admin[T]{
		repo:        repo,
		placeholder: placeholder,
		indicator:   NewSaveIndicator(DefaultSavedHold),
		now:         time.Now,
	}
}

func (a *Admin[T]) Key() string { return a.repo.Key() }

// Indicator exposes the save status shown next to the editor
func (a *Admin[T]) Indicator() *SaveIndicator {
	return a.indicator
}

func (a *Admin[T]) Get(ctx context.Context) documents.Collection[T] {
	return a.repo.Get(ctx)
}

func (a *Admin[T]) update(ctx context.Context, fn func(documents.Collection[T]) (documents.Collection[T], bool, error)) (documents.Collection[T], uint64, error) {
	saving := false
	doc, version, err := a.repo.Update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		next, changed, err := fn(c)
		if err == nil && changed {
			saving = true
			a.indicator.Saving()
		}
		return next, changed, err
	})
	if saving {
		a.indicator.Done(err)
	}
	return doc, version, err
}

// Add appends a placeholder item and returns it
func (a *Admin[T]) Add(ctx context.Context) (T, documents.Collection[T], uint64, error) {
	item := a.placeholder(NewID(a.now()))
	doc, version, err := a.update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		return Append(c, item), true, nil
	})
	return item, doc, version, err
}

// Update sets one field of the item with id. An unknown id changes nothing.
func (a *Admin[T]) Update(ctx context.Context, id, field, value string) (documents.Collection[T], uint64, error) {
	return a.update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		return SetField(c, id, field, value)
	})
}

// Delete removes the item with id once confirmed. An unknown id changes nothing.
func (a *Admin[T]) Delete(ctx context.Context, id string, confirmed bool) (documents.Collection[T], uint64, error) {
	if !confirmed {
		return a.repo.Get(ctx), 0, ErrConfirmationRequired
	}
	return a.update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		next, removed := Remove(c, id)
		return next, removed, nil
	})
}

// SetConfig changes title, subtitle or active on the collection config
func (a *Admin[T]) SetConfig(ctx context.Context, field, value string) (documents.Collection[T], uint64, error) {
	return a.update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		return SetConfig(c, field, value)
	})
}

// Move repositions an item, array position is the display order
func (a *Admin[T]) Move(ctx context.Context, from, to int) (documents.Collection[T], uint64, error) {
	return a.update(ctx, func(c documents.Collection[T]) (documents.Collection[T], bool, error) {
		next, err := Move(c, from, to)
		return next, err == nil && from != to, err
	})
}

// Append returns c with item added at the end
func Append[T documents.Item](c documents.Collection[T], item T) documents.Collection[T] {
	c = c.Clone()
	c.Items = append(c.Items, item)
	return c
}

// Remove drops the item with id and reports whether one was found
func Remove[T documents.Item](c documents.Collection[T], id string) (documents.Collection[T], bool) {
	i := c.Index(id)
	if i < 0 {
		return c, false
	}
	c = c.Clone()
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return c, true
}

// SetField assigns value to the string field tagged field on the item with id
func SetField[T documents.Item](c documents.Collection[T], id, field, value string) (documents.Collection[T], bool, error) {
	if field == "id" {
		return c, false, fmt.Errorf("%w: id cannot be changed", ErrUnknownField)
	}

	var zero T
	index, ok := fieldIndex(reflect.TypeOf(zero), field)
	if !ok {
		return c, false, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	i := c.Index(id)
	if i < 0 {
		return c, false, nil
	}

	c = c.Clone()
	item := reflect.ValueOf(&c.Items[i]).Elem()
	f := item.Field(index)
	if f.String() == value {
		return c, false, nil
	}
	f.SetString(value)
	return c, true, nil
}

// Fields lists the editable fields of T by JSON name
func Fields[T documents.Item]() []string {
	var zero T
	t := reflect.TypeOf(zero)
	var names []string
	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		if name != "" && name != "id" && t.Field(i).Type.Kind() == reflect.String {
			names = append(names, name)
		}
	}
	return names
}

func fieldIndex(t reflect.Type, field string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if jsonName(f) == field && f.Type.Kind() == reflect.String {
			return i, true
		}
	}
	return 0, false
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// SetConfig assigns one collection config field
func SetConfig[T documents.Item](c documents.Collection[T], field, value string) (documents.Collection[T], bool, error) {
	cfg := c.Config
	switch field {
	case "title":
		cfg.Title = value
	case "subtitle":
		cfg.Subtitle = value
	case "active":
		active, err := strconv.ParseBool(value)
		if err != nil {
			return c, false, fmt.Errorf("%w: active must be true or false", ErrInvalidValue)
		}
		cfg.Active = active
	default:
		return c, false, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	if cfg == c.Config {
		return c, false, nil
	}
	c.Config = cfg
	return c, true, nil
}

// Move splices the item at from into position to
func Move[T documents.Item](c documents.Collection[T], from, to int) (documents.Collection[T], error) {
	n := len(c.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return c, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, n)
	}
	c = c.Clone()
	moved := c.Items[from]
	items := append(c.Items[:from], c.Items[from+1:]...)
	c.Items = append(items[:to], append([]T{moved}, items[to:]...)...)
	return c, nil
}
