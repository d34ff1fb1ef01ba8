package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClaims() ReceiptClaims {
	return ReceiptClaims{
		PurchaseID:    3,
		ConcertID:     1,
		Seats:         []string{"A5"},
		PaymentMethod: "cash",
		Total:         200,
	}
}

func TestReceiptRoundTrip(t *testing.T) {
	r, err := NewReceipt("s3cret", sampleClaims(), time.Hour)
	require.NoError(t, err)
	assert.True(t, r.Exp.After(time.Now()))

	claims, err := VerifyReceipt("s3cret", r.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.PurchaseID)
	assert.Equal(t, []string{"A5"}, claims.Seats)
	assert.Equal(t, "purchase:3", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestReceiptIDsAreUnique(t *testing.T) {
	a, err := NewReceipt("s3cret", sampleClaims(), time.Hour)
	require.NoError(t, err)
	b, err := NewReceipt("s3cret", sampleClaims(), time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestVerifyReceiptRejects(t *testing.T) {
	good, err := NewReceipt("s3cret", sampleClaims(), time.Hour)
	require.NoError(t, err)
	expired, err := NewReceipt("s3cret", sampleClaims(), -time.Minute)
	require.NoError(t, err)

	parts := strings.Split(good.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]struct{ secret, token string }{
		"wrong secret": {"other", good.Token},
		"tampered":     {"s3cret", tampered},
		"expired":      {"s3cret", expired.Token},
		"garbage":      {"s3cret", "not-a-token"},
		"empty":        {"s3cret", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyReceipt(tc.secret, tc.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidReceipt))
		})
	}
}

func TestNewReceiptRequiresSecret(t *testing.T) {
	_, err := NewReceipt("", sampleClaims(), time.Hour)
	assert.Error(t, err)
}
