package model

import "time"

// Concert is one entry of the concerts document.  Concerts are addressed
// by their position in the document (the concertId used by the API); the
// ConcertID field mirrors that position for the browser scripts.
//
// Fields:
//  ConcertID – positional identifier stored alongside the record.
//  Artist    – headliner name, used for exact-match filtering.
//  StartsAt  – absolute start time (UTC).
//  Venue     – venue name.
//  Location  – street address or area shown next to the venue.
//  City      – city name.
//  Genre     – music genre.
//  Tickets   – sections keyed by letter ("A".."E").
type Concert struct {
	ConcertID int                 `json:"concert_id"`
	Artist    string              `json:"artist"`
	StartsAt  time.Time           `json:"UTC_time"`
	Venue     string              `json:"venue"`
	Location  string              `json:"location"`
	City      string              `json:"city"`
	Genre     string              `json:"genre"`
	Tickets   map[string]*Section `json:"tickets"`
}

// Section is a priced block of seats.  Seats holds only the seats that are
// still available, in stored order; a purchase removes entries from it.
type Section struct {
	Price float64  `json:"price"`
	Seats []string `json:"seats"`
}

// HasSeat reports whether seat is still available in the section.
func (s *Section) HasSeat(seat string) bool {
	for _, v := range s.Seats {
		if v == seat {
			return true
		}
	}
	return false
}

// RemoveSeat drops every occurrence of seat from the available list.
func (s *Section) RemoveSeat(seat string) {
	kept := s.Seats[:0]
	for _, v := range s.Seats {
		if v != seat {
			kept = append(kept, v)
		}
	}
	s.Seats = kept
}

// ConcertFilter narrows a concert listing.  Empty string fields, a nil
// ConcertIDs slice and a nil Limit mean "no restriction".
type ConcertFilter struct {
	ConcertIDs []int
	Artist     string
	Venue      string
	City       string
	Genre      string
	Limit      *int
}
