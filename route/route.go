package route

import "circle-route/booth"

// Route is the start position followed by the booths in visiting order.
type Route []booth.Booth

func (r Route) Start() (booth.Booth, bool) {
	if len(r) == 0 {
		return booth.Booth{}, false
	}
	return r[0], true
}

func (r Route) Targets() []booth.Booth {
	if len(r) <= 1 {
		return nil
	}
	return r[1:]
}

// Done reports the terminal state: nothing left to visit.
func (r Route) Done() bool {
	return len(r) <= 1
}

func (r Route) Next() (booth.Booth, bool) {
	if len(r) < 2 {
		return booth.Booth{}, false
	}
	return r[1], true
}

// Lookahead returns up to n targets after the next one.
func (r Route) Lookahead(n int) []booth.Booth {
	if n <= 0 || len(r) <= 2 {
		return nil
	}
	end := 2 + n
	if end > len(r) {
		end = len(r)
	}
	return r[2:end]
}

// Legs returns the cost of each step; Legs()[i] is the cost of reaching r[i+1].
func (r Route) Legs(m CostModel) []int {
	if len(r) < 2 {
		return nil
	}
	legs := make([]int, 0, len(r)-1)
	prev := m.Layout.Parse(r[0].Space)
	for _, b := range r[1:] {
		coord := m.Layout.Parse(b.Space)
		legs = append(legs, m.Between(prev, coord))
		prev = coord
	}
	return legs
}

func (r Route) Cost(m CostModel) int {
	total := 0
	for _, leg := range r.Legs(m) {
		total += leg
	}
	return total
}
