package sections

import (
	"context"

	"github.com/localnerve/jam-build-landing/internal/documents"
)

// Admin applies registry edits through the sections-config repository
type Admin struct {
	repo *documents.Repository[documents.SectionRegistry]
}

func NewAdmin(repo *documents.Repository[documents.SectionRegistry]) *Admin {
	return &Admin{repo: repo}
}

// List returns the registry in display order
func (a *Admin) List(ctx context.Context) documents.SectionRegistry {
	return Sorted(a.repo.Get(ctx))
}

func (a *Admin) Toggle(ctx context.Context, id string) (documents.SectionRegistry, uint64, error) {
	return a.repo.Update(ctx, func(reg documents.SectionRegistry) (documents.SectionRegistry, bool, error) {
		next, err := Toggle(reg, id)
		return next, err == nil, err
	})
}

func (a *Admin) Move(ctx context.Context, from, to int) (documents.SectionRegistry, uint64, error) {
	return a.repo.Update(ctx, func(reg documents.SectionRegistry) (documents.SectionRegistry, bool, error) {
		next, err := Move(reg, from, to)
		return next, err == nil, err
	})
}

// Reset restores the default registry
func (a *Admin) Reset(ctx context.Context) (documents.SectionRegistry, uint64, error) {
	return a.repo.Reset(ctx)
}
