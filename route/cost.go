package route

import (
	"fmt"

	"circle-route/booth"
)

const (
	DefaultRowWeight     = 10
	DefaultFoldThreshold = 32
	DefaultFoldLength    = 64
	DefaultSentinel      = 10000
	DefaultHallPenalty   = 1000
)

// CostModel scores how far apart two booths are. Costs are only meant for
// comparison. Every pair in different zones costs at least Sentinel, a
// known booth against an unknown one costs more than any known pair, and
// in-zone costs are clamped below it, so same-zone moves always win.
type CostModel struct {
	Layout booth.Layout

	// RowWeight is the price of moving one aisle over, in seats.
	RowWeight int
	// Seats above FoldThreshold sit on the back face of the aisle and are
	// mirrored to FoldLength - seat.
	FoldThreshold int
	FoldLength    int
	Sentinel      int
	// HallPenalty is added on top of Sentinel when the hall characters differ.
	HallPenalty int
}

func NewCostModel(layout booth.Layout) CostModel {
	return CostModel{
		Layout:        layout,
		RowWeight:     DefaultRowWeight,
		FoldThreshold: DefaultFoldThreshold,
		FoldLength:    DefaultFoldLength,
		Sentinel:      DefaultSentinel,
		HallPenalty:   DefaultHallPenalty,
	}
}

func (m CostModel) Validate() error {
	if m.RowWeight < 0 {
		return fmt.Errorf("row weight must not be negative")
	}
	if m.FoldThreshold <= 0 || m.FoldLength <= m.FoldThreshold {
		return fmt.Errorf("fold length (%d) must exceed fold threshold (%d)", m.FoldLength, m.FoldThreshold)
	}
	if m.Sentinel <= 0 {
		return fmt.Errorf("sentinel must be positive")
	}
	if m.HallPenalty < 0 {
		return fmt.Errorf("hall penalty must not be negative")
	}
	return m.Layout.Validate()
}

// Cost parses both codes and returns the cost of walking from a to b.
func (m CostModel) Cost(a, b string) int {
	return m.Between(m.Layout.Parse(a), m.Layout.Parse(b))
}

func (m CostModel) Between(a, b booth.Coordinate) int {
	if a.Known() != b.Known() {
		return m.Sentinel + m.HallPenalty + 1
	}
	if !a.SameZone(b) {
		if a.Hall != b.Hall {
			return m.Sentinel + m.HallPenalty
		}
		return m.Sentinel
	}

	rowDist := abs(int(a.Row) - int(b.Row))
	seatDist := abs(m.EffectiveSeat(a.Seat) - m.EffectiveSeat(b.Seat))
	cost := rowDist*m.RowWeight + seatDist
	if cost >= m.Sentinel {
		cost = m.Sentinel - 1
	}
	return cost
}

func (m CostModel) EffectiveSeat(seat int) int {
	if seat > m.FoldThreshold {
		return m.FoldLength - seat
	}
	return seat
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
