package repository

import (
	"context"

	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/store"
)

// DocumentRepo serves the documents that are only ever returned whole:
// the FAQ, the comment queue and the server cart snapshot.
type DocumentRepo struct {
	store *store.Store
}

// NewDocumentRepo constructs a DocumentRepo over the given store.
func NewDocumentRepo(s *store.Store) *DocumentRepo {
	return &DocumentRepo{store: s}
}

// FAQ returns every question/answer pair.
func (r *DocumentRepo) FAQ(ctx context.Context) ([]model.FAQ, error) {
	unlock := r.store.RLock(r.store.FAQPath())
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.FAQ()
}

// Comments returns the comments awaiting review.
func (r *DocumentRepo) Comments(ctx context.Context) ([]model.Comment, error) {
	unlock := r.store.RLock(r.store.CommentsPath())
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Comments()
}

// Cart returns the server-side cart snapshot.
func (r *DocumentRepo) Cart(ctx context.Context) ([]model.CartItem, error) {
	unlock := r.store.RLock(r.store.CartPath())
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Cart()
}
