package utils // package utils provides helpers for signing and checking purchase receipts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// ErrInvalidReceipt is returned for any token that cannot be verified:
// malformed, wrong signature, wrong algorithm or expired.
var ErrInvalidReceipt = errors.New("invalid receipt")

// ReceiptClaims is the payload of a purchase receipt.  The standard claims
// carry the receipt id (jti), issue time and expiry; the rest mirrors the
// stored purchase.
type ReceiptClaims struct {
	PurchaseID    int      `json:"purchaseId"`
	ConcertID     int      `json:"concertId"`
	Seats         []string `json:"seats"`
	PaymentMethod string   `json:"paymentMethod"`
	Total         float64  `json:"total"`
	jwt.RegisteredClaims
}

// Receipt is a signed receipt token along with its expiry.
type Receipt struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewReceipt signs claims with HS256.  The receipt id and timestamps are
// filled in here; anything the caller set in RegisteredClaims is replaced.
func NewReceipt(secret string, claims ReceiptClaims, ttl time.Duration) (Receipt, error) {
	if secret == "" {
		return Receipt{}, errors.New("receipt secret is empty")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   fmt.Sprintf("purchase:%d", claims.PurchaseID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Token: signed, Exp: exp}, nil
}

// VerifyReceipt parses token and checks its signature and expiry.  Every
// failure is reported as ErrInvalidReceipt wrapping the parser's reason.
func VerifyReceipt(secret, token string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidReceipt
	}
	return claims, nil
}
