package model

// Payment methods accepted by the purchase endpoint.
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit card"
)

// IsPaymentMethod reports whether m is an accepted payment method.
func IsPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCreditCard
}

// Purchase records a completed ticket sale.  PurchaseID is the length of
// the purchases document when the record was appended, so it stays unique
// only while purchases are never removed.
//
// Fields:
//  PurchaseID    – position in the purchases document.
//  ConcertID     – positional id of the concert.
//  Seats         – every seat requested, in request order.
//  PaymentMethod – "cash" or "credit card".
//  Timestamp     – creation time in Unix milliseconds.
type Purchase struct {
	PurchaseID    int      `json:"purchaseId"`
	ConcertID     int      `json:"concertId"`
	Seats         []string `json:"seats"`
	PaymentMethod string   `json:"paymentMethod"`
	Timestamp     int64    `json:"timestamp"`
}
