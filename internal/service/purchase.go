package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/queue"
	"github.com/iliyamo/sonic-seats/internal/repository"
	"github.com/iliyamo/sonic-seats/internal/store"
)

// PurchaseRequest carries the raw form fields of a purchase.  Seats is a
// JSON array of seat identifiers, e.g. `["A1","A2"]`.
type PurchaseRequest struct {
	ConcertID     string
	Seats         string
	PaymentMethod string
}

// PurchaseResult is a persisted purchase plus the details needed for the
// receipt and the confirmation event.
type PurchaseResult struct {
	Purchase model.Purchase
	Concert  model.Concert
	Total    float64
}

// PurchaseService removes purchased seats from inventory and records the
// purchase.
type PurchaseService struct {
	store  *store.Store
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewPurchaseService wires a PurchaseService.  A nil publisher disables
// events.
func NewPurchaseService(s *store.Store, events EventPublisher, log *zap.Logger) *PurchaseService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PurchaseService{store: s, events: events, log: log, now: time.Now}
}

// Purchase validates req against the current inventory and, when every
// seat is available, persists the reduced inventory together with the new
// purchase record.
//
// Seats are checked and removed one at a time in request order, so a seat
// listed twice fails on its second occurrence as "not available".  Any
// failure aborts before persistence; nothing reaches disk.
func (s *PurchaseService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	if req.ConcertID == "" || req.Seats == "" || req.PaymentMethod == "" {
		return nil, errs.Validation("Concert ID, seats, and payment method are all required parameters.")
	}
	seats, err := parseSeats(req.Seats)
	if err != nil {
		return nil, err
	}
	if !model.IsPaymentMethod(req.PaymentMethod) {
		return nil, errs.Validation("Payment method must be either 'cash' or 'credit card'.")
	}

	concertsPath, purchasesPath := s.store.ConcertsPath(), s.store.PurchasesPath()
	unlock := s.store.Lock(concertsPath, purchasesPath)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	concerts, err := s.store.Concerts()
	if err != nil {
		return nil, err
	}
	purchases, err := s.store.Purchases()
	if err != nil {
		return nil, err
	}
	concertID, err := repository.ParseConcertID(req.ConcertID, len(concerts))
	if err != nil {
		return nil, err
	}
	concert := &concerts[concertID]

	total := 0.0
	for _, seat := range seats {
		letter, _, ok := model.ParseSeat(seat, s.store.MaxSeat())
		if !ok {
			return nil, errs.Validation("%q is not a valid seat.", seat)
		}
		section := concert.Tickets[letter]
		if section == nil || !section.HasSeat(seat) {
			return nil, errs.Validation("%s is not available.", seat)
		}
		section.RemoveSeat(seat)
		total += section.Price
	}

	now := s.now()
	p := model.Purchase{
		PurchaseID:    len(purchases),
		ConcertID:     concertID,
		Seats:         seats,
		PaymentMethod: req.PaymentMethod,
		Timestamp:     now.UnixMilli(),
	}
	purchases = append(purchases, p)

	if err := s.store.Commit(
		store.Doc{Path: concertsPath, Value: concerts},
		store.Doc{Path: purchasesPath, Value: purchases},
	); err != nil {
		if errs.IsConsistency(err) {
			s.log.Error("purchase left documents inconsistent",
				zap.Int("purchase_id", p.PurchaseID),
				zap.Int("concert_id", concertID),
				zap.Strings("seats", seats),
				zap.Error(err))
		}
		return nil, err
	}

	publishAsync(s.events, s.log, queue.PurchaseQueue, queue.PurchaseConfirmedEvent{
		EventID:       uuid.NewString(),
		PurchaseID:    p.PurchaseID,
		ConcertID:     concertID,
		Artist:        concert.Artist,
		Venue:         concert.Venue,
		Seats:         seats,
		PaymentMethod: p.PaymentMethod,
		Total:         total,
		ConfirmedAt:   now.UTC().Format(time.RFC3339),
	})
	return &PurchaseResult{Purchase: p, Concert: *concert, Total: total}, nil
}

// parseSeats decodes the seats field.  Anything other than a JSON array
// is rejected as a format error; an element that is not a string is
// rejected as an invalid seat.  An empty array is accepted and yields a
// purchase without seats.
func parseSeats(raw string) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil || elems == nil {
		return nil, errs.Validation("The argument passed into the seats parameter is not valid." +
			" Check the documentation for more details.")
	}
	seats := make([]string, 0, len(elems))
	for _, e := range elems {
		var seat string
		if err := json.Unmarshal(e, &seat); err != nil {
			return nil, errs.Validation("%q is not a valid seat.", string(e))
		}
		seats = append(seats, seat)
	}
	return seats, nil
}
