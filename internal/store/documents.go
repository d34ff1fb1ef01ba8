package store

import (
	"fmt"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
)

// Typed loaders.  Each one parses its document and checks the shape the
// rest of the service relies on; a document that fails the check is
// reported as a StorageError with Op "validate".  None of them take locks:
// callers hold the document lock for as long as they need a stable view.

// ConcertsPath is the path of the concerts document.
func (s *Store) ConcertsPath() string { return s.Path(s.files.Concerts) }

// PurchasesPath is the path of the purchases document.
func (s *Store) PurchasesPath() string { return s.Path(s.files.Purchases) }

// CommentsPath is the path of the comments document.
func (s *Store) CommentsPath() string { return s.Path(s.files.Comments) }

// FAQPath is the path of the FAQ document.
func (s *Store) FAQPath() string { return s.Path(s.files.FAQ) }

// CartPath is the path of the cart snapshot document.
func (s *Store) CartPath() string { return s.Path(s.files.Cart) }

// Concerts loads the concert collection.
func (s *Store) Concerts() ([]model.Concert, error) {
	path := s.ConcertsPath()
	var out []model.Concert
	if err := s.Load(path, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.checkConcert(&out[i]); err != nil {
			return nil, errs.Storage("validate", path, fmt.Errorf("concert %d: %w", i, err))
		}
	}
	if out == nil {
		out = []model.Concert{}
	}
	return out, nil
}

func (s *Store) checkConcert(c *model.Concert) error {
	for letter, sec := range c.Tickets {
		if !model.IsSection(letter) {
			return fmt.Errorf("unknown section %q", letter)
		}
		if sec == nil {
			return fmt.Errorf("section %s is null", letter)
		}
		if sec.Price < 0 {
			return fmt.Errorf("section %s has negative price", letter)
		}
		for _, seat := range sec.Seats {
			got, _, ok := model.ParseSeat(seat, s.maxSeat)
			if !ok || got != letter {
				return fmt.Errorf("seat %q does not belong to section %s", seat, letter)
			}
		}
	}
	return nil
}

// Purchases loads the purchase collection.
func (s *Store) Purchases() ([]model.Purchase, error) {
	path := s.PurchasesPath()
	var out []model.Purchase
	if err := s.Load(path, &out); err != nil {
		return nil, err
	}
	for i, p := range out {
		if !model.IsPaymentMethod(p.PaymentMethod) {
			return nil, errs.Storage("validate", path, fmt.Errorf("purchase %d: payment method %q", i, p.PaymentMethod))
		}
		if p.Seats == nil {
			return nil, errs.Storage("validate", path, fmt.Errorf("purchase %d: seats missing", i))
		}
	}
	if out == nil {
		out = []model.Purchase{}
	}
	return out, nil
}

// Comments loads the comment collection.  A missing document is an empty
// collection.
func (s *Store) Comments() ([]model.Comment, error) {
	path := s.CommentsPath()
	var out []model.Comment
	if _, err := s.LoadOptional(path, &out); err != nil {
		return nil, err
	}
	for i, c := range out {
		if c.Category == "" || c.Description == "" {
			return nil, errs.Storage("validate", path, fmt.Errorf("comment %d: missing category or description", i))
		}
	}
	if out == nil {
		out = []model.Comment{}
	}
	return out, nil
}

// FAQ loads the question/answer list.
func (s *Store) FAQ() ([]model.FAQ, error) {
	path := s.FAQPath()
	var out []model.FAQ
	if err := s.Load(path, &out); err != nil {
		return nil, err
	}
	for i, f := range out {
		if f.Question == "" {
			return nil, errs.Storage("validate", path, fmt.Errorf("faq %d: empty question", i))
		}
	}
	if out == nil {
		out = []model.FAQ{}
	}
	return out, nil
}

// Cart loads the server-side cart snapshot.
func (s *Store) Cart() ([]model.CartItem, error) {
	path := s.CartPath()
	var out []model.CartItem
	if err := s.Load(path, &out); err != nil {
		return nil, err
	}
	for i, it := range out {
		if _, _, ok := model.ParseSeat(it.Seat, s.maxSeat); !ok {
			return nil, errs.Storage("validate", path, fmt.Errorf("cart item %d: seat %q", i, it.Seat))
		}
	}
	if out == nil {
		out = []model.CartItem{}
	}
	return out, nil
}
