package booth

import (
	"strconv"

	"golang.org/x/text/width"
)

// Coordinate is a parsed location code. Zone is nil when no configured zone
// accepts the hall/row pair; such coordinates still take part in routing and
// simply sort behind every known zone.
type Coordinate struct {
	Hall rune
	Row  rune
	Seat int
	Zone *Zone
}

func (c Coordinate) Known() bool {
	return c.Zone != nil
}

func (c Coordinate) ZoneName() string {
	if c.Zone == nil {
		return ""
	}
	return c.Zone.Name
}

func (c Coordinate) SameZone(other Coordinate) bool {
	return c.ZoneName() == other.ZoneName()
}

var defaultLayout = DefaultLayout()

// Parse parses code against the built-in layout.
func Parse(code string) Coordinate {
	return defaultLayout.Parse(code)
}

// Parse splits code into hall character, row character and the leading seat
// number of the remainder. Trailing sub-booth letters ("a", "b") are ignored.
// An empty or unrecognised code yields a coordinate without a zone; it never
// fails.
func (l Layout) Parse(code string) Coordinate {
	runes := []rune(code)
	if len(runes) == 0 {
		return Coordinate{}
	}

	coord := Coordinate{Hall: runes[0]}
	if len(runes) > 1 {
		coord.Row = runes[1]
	}
	if len(runes) > 2 {
		coord.Seat = leadingNumber(HalfWidth(string(runes[2:])))
	}
	coord.Zone = l.Lookup(coord.Hall, coord.Row)
	return coord
}

// HalfWidth folds full-width digits, letters and punctuation to ASCII.
func HalfWidth(s string) string {
	return width.Narrow.String(s)
}

// MaxSeat caps seat numbers so an absurdly long digit run still parses as a
// seat far from every real one.
const MaxSeat = 1 << 20

func leadingNumber(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n > MaxSeat {
		// Only overflow can fail here; the run is all digits.
		return MaxSeat
	}
	return n
}
