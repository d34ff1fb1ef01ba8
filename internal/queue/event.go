// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into audit log lines.
package queue

// Queue names.  The routing key of each message equals its queue name.
const (
	PurchaseQueue = "purchase.confirmed"
	CommentQueue  = "comment.received"
)

// PurchaseConfirmedEvent is published after a purchase has been persisted.
// It carries enough detail for downstream consumers to log, notify or run
// analytics without reading the data documents.
type PurchaseConfirmedEvent struct {
	EventID       string   `json:"event_id"`
	PurchaseID    int      `json:"purchase_id"`
	ConcertID     int      `json:"concert_id"`
	Artist        string   `json:"artist"`
	Venue         string   `json:"venue"`
	Seats         []string `json:"seats"`
	PaymentMethod string   `json:"payment_method"`
	Total         float64  `json:"total"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// CommentReceivedEvent is published after a comment joins the review queue.
// Contact details are reduced to flags so the broker never carries them.
type CommentReceivedEvent struct {
	EventID     string `json:"event_id"`
	Category    string `json:"category"`
	HasName     bool   `json:"has_name"`
	HasPhone    bool   `json:"has_phone"`
	HasEmail    bool   `json:"has_email"`
	QueueLength int    `json:"queue_length"`
	ReceivedAt  string `json:"received_at"`
}
