// Package testutil seeds throwaway data directories for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iliyamo/sonic-seats/internal/model"
)

// SampleConcerts returns three concerts.  Concert 0 has seats A1-A3 and
// B1-B2 available; concert 1 shares its artist with concert 0.
func SampleConcerts() []model.Concert {
	return []model.Concert{
		{
			ConcertID: 0,
			Artist:    "Olivia Rodrigo",
			StartsAt:  time.Date(2024, 7, 2, 3, 0, 0, 0, time.UTC),
			Venue:     "Crypto.com Arena",
			Location:  "1111 S Figueroa St",
			City:      "Los Angeles",
			Genre:     "Pop",
			Tickets: map[string]*model.Section{
				"A": {Price: 250, Seats: []string{"A1", "A2", "A3"}},
				"B": {Price: 150, Seats: []string{"B1", "B2"}},
			},
		},
		{
			ConcertID: 1,
			Artist:    "Olivia Rodrigo",
			StartsAt:  time.Date(2024, 7, 3, 3, 0, 0, 0, time.UTC),
			Venue:     "Kia Forum",
			Location:  "3900 W Manchester Blvd",
			City:      "Inglewood",
			Genre:     "Pop",
			Tickets: map[string]*model.Section{
				"A": {Price: 200, Seats: []string{"A5"}},
			},
		},
		{
			ConcertID: 2,
			Artist:    "Tyler, The Creator",
			StartsAt:  time.Date(2024, 8, 10, 4, 0, 0, 0, time.UTC),
			Venue:     "Crypto.com Arena",
			Location:  "1111 S Figueroa St",
			City:      "Los Angeles",
			Genre:     "Hip-Hop",
			Tickets: map[string]*model.Section{
				"C": {Price: 90, Seats: []string{"C10", "C11"}},
				"E": {Price: 40, Seats: []string{"E20"}},
			},
		},
	}
}

// SampleFAQ returns a short FAQ document.
func SampleFAQ() []model.FAQ {
	return []model.FAQ{
		{Question: "Can I get a refund?", Answer: "All sales are final."},
		{Question: "How do I pay?", Answer: "Cash or credit card at checkout."},
	}
}

// SampleCart returns a cart snapshot with one seat.
func SampleCart() []model.CartItem {
	return []model.CartItem{{ConcertID: 0, Seat: "A1", Price: 250}}
}

// SeedDataDir writes the sample documents into a fresh temp dir and returns
// its path.  The comments document is deliberately absent.
func SeedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteJSON(t, filepath.Join(dir, "concerts-LA.json"), SampleConcerts())
	WriteJSON(t, filepath.Join(dir, "faq.json"), SampleFAQ())
	WriteJSON(t, filepath.Join(dir, "cart.json"), SampleCart())
	WriteJSON(t, filepath.Join(dir, "purchases.json"), []model.Purchase{})
	return dir
}

// WriteJSON writes v to path, failing the test on error.
func WriteJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadJSON parses the document at path into v, failing the test on error.
func ReadJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
}

// ReadRaw returns the bytes at path, failing the test on error.
func ReadRaw(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return b
}
