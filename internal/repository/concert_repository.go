// Package repository contains read access to the catalog documents,
// separated from HTTP handlers.  This file serves concert lookups and the
// filtered listing used by the browse page.  Concerts are addressed by
// their position in the concerts document.
package repository

import (
	"context"
	"strconv"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/store"
)

// ConcertRepo answers read-only questions about the concert collection.
type ConcertRepo struct {
	store *store.Store
}

// NewConcertRepo constructs a ConcertRepo over the given store.
func NewConcertRepo(s *store.Store) *ConcertRepo {
	return &ConcertRepo{store: s}
}

// ParseConcertID turns a raw id into a position in a collection of n
// concerts.  The raw value must be a base-10 integer in [0, n).
func ParseConcertID(raw string, n int) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validation("Concert ID needs to be an integer.")
	}
	if id < 0 || id >= n {
		return 0, errs.Validation("Concert ID needs to be between 0 and %d.", n-1)
	}
	return id, nil
}

// GetByID returns the concert at the given position.  A raw id that is
// not an integer, or falls outside the collection, is a ValidationError.
func (r *ConcertRepo) GetByID(ctx context.Context, raw string) (*model.Concert, error) {
	if _, err := strconv.Atoi(raw); err != nil {
		return nil, errs.Validation("Concert ID needs to be an integer.")
	}
	concerts, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	id, err := ParseConcertID(raw, len(concerts))
	if err != nil {
		return nil, err
	}
	return &concerts[id], nil
}

// List returns the concerts matching every filter in f, in stored order.
func (r *ConcertRepo) List(ctx context.Context, f model.ConcertFilter) ([]model.Concert, error) {
	concerts, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(concerts, f), nil
}

func (r *ConcertRepo) all(ctx context.Context) ([]model.Concert, error) {
	unlock := r.store.RLock(r.store.ConcertsPath())
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Concerts()
}

// Filter applies f to concerts without reordering them.  The id
// allow-list matches positions in the slice; string filters are exact.
func Filter(concerts []model.Concert, f model.ConcertFilter) []model.Concert {
	var allowed map[int]bool
	if f.ConcertIDs != nil {
		allowed = make(map[int]bool, len(f.ConcertIDs))
		for _, id := range f.ConcertIDs {
			allowed[id] = true
		}
	}
	out := make([]model.Concert, 0, len(concerts))
	for i, c := range concerts {
		if allowed != nil && !allowed[i] {
			continue
		}
		if f.Artist != "" && c.Artist != f.Artist {
			continue
		}
		if f.Venue != "" && c.Venue != f.Venue {
			continue
		}
		if f.City != "" && c.City != f.City {
			continue
		}
		if f.Genre != "" && c.Genre != f.Genre {
			continue
		}
		out = append(out, c)
	}
	if f.Limit != nil && *f.Limit < len(out) {
		out = out[:max(*f.Limit, 0)]
	}
	return out
}
