package model

import "strconv"

// Sections lists the section letters a venue may contain, in order.
var Sections = []string{"A", "B", "C", "D", "E"}

// DefaultSeatsPerSection is the seat-number bound used when none is configured.
const DefaultSeatsPerSection = 20

// IsSection reports whether letter names a known section.
func IsSection(letter string) bool {
	for _, s := range Sections {
		if s == letter {
			return true
		}
	}
	return false
}

// ParseSeat splits a seat identifier such as "B12" into its section letter
// and seat number.  The number must lie in [1, maxSeat] and carry no
// leading zero.  ok is false for anything else.
func ParseSeat(id string, maxSeat int) (section string, number int, ok bool) {
	if len(id) < 2 {
		return "", 0, false
	}
	section, digits := id[:1], id[1:]
	if !IsSection(section) || digits[0] == '0' {
		return "", 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > maxSeat {
		return "", 0, false
	}
	return section, n, true
}
