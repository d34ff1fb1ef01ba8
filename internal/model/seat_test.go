package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeat(t *testing.T) {
	cases := []struct {
		id      string
		section string
		number  int
		ok      bool
	}{
		{"A1", "A", 1, true},
		{"E20", "E", 20, true},
		{"C7", "C", 7, true},
		{"E21", "", 0, false},
		{"A0", "", 0, false},
		{"A01", "", 0, false},
		{"F1", "", 0, false},
		{"a1", "", 0, false},
		{"A", "", 0, false},
		{"A1x", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			section, number, ok := ParseSeat(tc.id, DefaultSeatsPerSection)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.section, section)
			assert.Equal(t, tc.number, number)
		})
	}
}

func TestSectionRemoveSeat(t *testing.T) {
	s := &Section{Price: 50, Seats: []string{"A1", "A2", "A3"}}
	assert.True(t, s.HasSeat("A2"))
	s.RemoveSeat("A2")
	assert.False(t, s.HasSeat("A2"))
	assert.Equal(t, []string{"A1", "A3"}, s.Seats)
}

func TestIsPaymentMethod(t *testing.T) {
	assert.True(t, IsPaymentMethod("cash"))
	assert.True(t, IsPaymentMethod("credit card"))
	assert.False(t, IsPaymentMethod("credit-card"))
	assert.False(t, IsPaymentMethod(""))
}
