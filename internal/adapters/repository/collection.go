package repository

import (
	"context"
	"fmt"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
)

// record is a pointer to a collection entity
type record[E any] interface {
	*E
	entities.Identifiable
	SetEntityID(id int)
}

// collection implements newest-first CRUD over one JSON array document.
// Every call re-reads the file; mutations run inside database.Transact.
type collection[E any, P record[E]] struct {
	store    *database.Store
	name     string
	notFound error
}

func newCollection[E any, P record[E]](store *database.Store, name string, notFound error) *collection[E, P] {
	return &collection[E, P]{store: store, name: name, notFound: notFound}
}

// compact drops null entries left by hand-edited files
func compact[E any, P record[E]](items []P) []P {
	out := make([]P, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[E, P]) list(ctx context.Context) ([]P, error) {
	items, err := database.View(ctx, c.store, c.name, []P{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return compact[E, P](items), nil
}

func (c *collection[E, P]) get(ctx context.Context, id int) (P, error) {
	items, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.EntityID() == id {
			return item, nil
		}
	}

	return nil, c.notFound
}

// create allocates the next id and prepends item
func (c *collection[E, P]) create(ctx context.Context, item P) error {
	err := database.Transact(ctx, c.store, c.name, []P{}, func(items []P) ([]P, error) {
		items = compact[E, P](items)
		item.SetEntityID(entities.NextID(items))
		return append([]P{item}, items...), nil
	})
	if err != nil {
		return fmt.Errorf("create in %s: %w", c.name, err)
	}
	return nil
}

func (c *collection[E, P]) update(ctx context.Context, id int, fn func(P) error) (P, error) {
	var updated P

	err := database.Transact(ctx, c.store, c.name, []P{}, func(items []P) ([]P, error) {
		items = compact[E, P](items)
		for _, item := range items {
			if item.EntityID() != id {
				continue
			}
			if err := fn(item); err != nil {
				return nil, err
			}
			// the id is the record's identity and is never rewritten
			item.SetEntityID(id)
			updated = item
			return items, nil
		}
		return nil, c.notFound
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *collection[E, P]) delete(ctx context.Context, id int) (P, error) {
	var removed P

	err := database.Transact(ctx, c.store, c.name, []P{}, func(items []P) ([]P, error) {
		items = compact[E, P](items)
		kept := make([]P, 0, len(items))
		for _, item := range items {
			if removed == nil && item.EntityID() == id {
				removed = item
				continue
			}
			kept = append(kept, item)
		}
		if removed == nil {
			return nil, c.notFound
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}
