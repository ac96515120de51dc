// Package sections orders, filters and renders the page section registry.
package sections

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"go.uber.org/zap"
)

var (
	ErrIndexOutOfRange = errors.New("section index out of range")
	ErrUnknownSection  = errors.New("unknown section")
)

// Renderer produces the content of one section. A renderer that returns
// visible=false hides the section without an error, e.g. an inactive collection.
type Renderer func(ctx context.Context, s documents.Section) (content any, visible bool, err error)

// Mounted is one rendered section of the page
type Mounted struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Component string `json:"component"`
	Order     int    `json:"order"`
	Content   any    `json:"content,omitempty"`
}

// Sorted returns a copy ordered by the order field. Equal orders keep their array position.
func Sorted(reg documents.SectionRegistry) documents.SectionRegistry {
	out := reg.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Render mounts the enabled sections in order. Unknown components are skipped
// with a warning so one bad entry never blanks the page.
func Render(ctx context.Context, reg documents.SectionRegistry, renderers map[string]Renderer, log *zap.Logger) []Mounted {
	mounted := make([]Mounted, 0, len(reg))

	for _, s := range Sorted(reg) {
		if !s.Enabled {
			continue
		}

		render, ok := renderers[s.Component]
		if !ok {
			log.Warn("unknown section component",
				zap.String("section", s.ID),
				zap.String("component", s.Component),
			)
			continue
		}

		content, visible, err := render(ctx, s)
		if err != nil {
			log.Error("section render failed", zap.String("section", s.ID), zap.Error(err))
			continue
		}
		if !visible {
			continue
		}

		mounted = append(mounted, Mounted{
			ID:        s.ID,
			Name:      s.Name,
			Component: s.Component,
			Order:     s.Order,
			Content:   content,
		})
	}

	return mounted
}

// Toggle flips the enabled flag of the section with id
func Toggle(reg documents.SectionRegistry, id string) (documents.SectionRegistry, error) {
	i := reg.Find(id)
	if i < 0 {
		return reg, fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	out := reg.Clone()
	out[i].Enabled = !out[i].Enabled
	return out, nil
}

// Move takes the section at display position from and reinserts it at to,
// then renumbers every order to its new position.
func Move(reg documents.SectionRegistry, from, to int) (documents.SectionRegistry, error) {
	n := len(reg)
	if from < 0 || from >= n || to < 0 || to >= n {
		return reg, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, n)
	}

	out := Sorted(reg)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append(documents.SectionRegistry{moved}, out[to:]...)...)

	for i := range out {
		out[i].Order = i
	}
	return out, nil
}
