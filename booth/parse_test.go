package booth_test

import (
	"fmt"
	"strings"
	"testing"

	"circle-route/booth"

	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripEveryZoneRowSeat(t *testing.T) {
	layout := booth.DefaultLayout()
	for zi, zone := range layout.Zones {
		for _, row := range zone.Rows {
			for seat := 1; seat <= 64; seat++ {
				code := fmt.Sprintf("%c%c%02d", zone.Hall(), row, seat)
				coord := layout.Parse(code)
				require.True(t, coord.Known(), code)
				require.Equal(t, zone.Name, coord.ZoneName(), code)
				require.Same(t, &layout.Zones[zi], coord.Zone, code)
				require.Equal(t, row, coord.Row, code)
				require.Equal(t, seat, coord.Seat, code)
			}
		}
	}
}

func TestParse_FullWidthDigitsAndSuffix(t *testing.T) {
	coord := booth.Parse("東A０５ａ")
	require.Equal(t, "東7", coord.ZoneName())
	require.Equal(t, 'A', coord.Row)
	require.Equal(t, 5, coord.Seat)

	// Only the seat part is folded; a full-width row letter is not a row.
	require.False(t, booth.Parse("東Ａ05").Known())

	coord = booth.Parse("南x12b")
	require.Equal(t, "南12", coord.ZoneName())
	require.Equal(t, 12, coord.Seat)

	coord = booth.Parse("西あ３３")
	require.Equal(t, "西12", coord.ZoneName())
	require.Equal(t, 33, coord.Seat)
}

func TestParse_Degenerate(t *testing.T) {
	require.Equal(t, booth.Coordinate{}, booth.Parse(""))

	coord := booth.Parse("東")
	require.False(t, coord.Known())
	require.Equal(t, rune(0), coord.Row)
	require.Equal(t, 0, coord.Seat)

	coord = booth.Parse("東Aab")
	require.True(t, coord.Known())
	require.Equal(t, 0, coord.Seat)
}

func TestParse_OversizedSeatIsCapped(t *testing.T) {
	coord := booth.Parse("東A123456789012345678901234567890a")
	require.True(t, coord.Known())
	require.Equal(t, booth.MaxSeat, coord.Seat)

	require.Equal(t, booth.MaxSeat, booth.Parse("東A2000000").Seat)
	require.Equal(t, booth.MaxSeat, booth.Parse("東A"+strings.Repeat("９", 30)).Seat)
}

func TestParse_UnknownZoneIsTolerated(t *testing.T) {
	coord := booth.Parse("北A01")
	require.False(t, coord.Known())
	require.Equal(t, "", coord.ZoneName())
	require.Equal(t, 'A', coord.Row)
	require.Equal(t, 1, coord.Seat)

	// Right hall, row from another zone's alphabet.
	coord = booth.Parse("東a01")
	require.False(t, coord.Known())
}

func TestParse_FirstMatchingZoneWins(t *testing.T) {
	layout := booth.Layout{Zones: []booth.Zone{
		{ID: "first", Name: "East-1", Rows: "ABC"},
		{ID: "second", Name: "East-2", Rows: "BCD"},
	}}
	require.Equal(t, "East-1", layout.Parse("EB10").ZoneName())
	require.Equal(t, "East-2", layout.Parse("ED10").ZoneName())
}

func TestHalfWidth(t *testing.T) {
	require.Equal(t, "01a", booth.HalfWidth("０１ａ"))
	require.Equal(t, "12-3", booth.HalfWidth("１２－３"))
	require.Equal(t, "", booth.HalfWidth(""))
}
