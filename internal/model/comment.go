package model

// Comment is a feedback message left through the contact form and queued
// for review by staff.  Name, Phone and Email are omitted from the stored
// document when the visitor left them blank.
type Comment struct {
	Category    string `json:"category"`
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description"`
}

// FAQ is a single question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CartItem is one seat held in the browser cart.  The server only keeps a
// read-only snapshot document of these.
type CartItem struct {
	ConcertID int     `json:"concertID"`
	Seat      string  `json:"seat"`
	Price     float64 `json:"price"`
}
