package route

import (
	"strings"

	"circle-route/booth"
)

// DefaultHighPriority are the priority column values treated as must-visit-first.
var DefaultHighPriority = []string{"S", "A", "5", "4", "HIGH", "高"}

const DefaultTwoOptLimit = 300

type Options struct {
	HighPriority []string
	TwoOpt       bool
	// TwoOptLimit skips 2-opt for sub-problems with more candidates than
	// this. Zero means no limit.
	TwoOptLimit int
}

func DefaultOptions() Options {
	return Options{
		HighPriority: append([]string(nil), DefaultHighPriority...),
		TwoOpt:       true,
		TwoOptLimit:  DefaultTwoOptLimit,
	}
}

// Solver orders wish-list booths into a walking route. It holds no state
// between calls; a new Solve supersedes the previous result.
type Solver struct {
	model CostModel
	opts  Options
	high  map[string]struct{}
}

func NewSolver(model CostModel, opts Options) *Solver {
	high := make(map[string]struct{}, len(opts.HighPriority))
	for _, token := range opts.HighPriority {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token != "" {
			high[token] = struct{}{}
		}
	}
	return &Solver{model: model, opts: opts, high: high}
}

func (s *Solver) Model() CostModel {
	return s.model
}

func (s *Solver) IsHighPriority(p booth.Priority) bool {
	token := strings.ToUpper(strings.TrimSpace(string(p)))
	if token == "" {
		return false
	}
	_, ok := s.high[token]
	return ok
}

// Solve returns [start, candidates...] in visiting order. High-priority
// candidates are routed first from the start, the rest continue from where
// that leg ended. With no candidates the route is just the start.
func (s *Solver) Solve(from string, candidates []booth.Booth) Route {
	start := booth.Start(from)
	route := Route{start}

	high, normal := s.partition(candidates)
	if len(high) == 0 || len(normal) == 0 {
		return append(route, s.solveFrom(start, candidates)...)
	}

	highPath := s.solveFrom(start, high)
	route = append(route, highPath...)
	return append(route, s.solveFrom(highPath[len(highPath)-1], normal)...)
}

func (s *Solver) partition(candidates []booth.Booth) ([]booth.Booth, []booth.Booth) {
	var high, normal []booth.Booth
	for _, candidate := range candidates {
		if s.IsHighPriority(candidate.Priority) {
			high = append(high, candidate)
		} else {
			normal = append(normal, candidate)
		}
	}
	return high, normal
}

// solveFrom routes candidates starting at origin. origin itself is not part
// of the result.
func (s *Solver) solveFrom(origin booth.Booth, candidates []booth.Booth) []booth.Booth {
	if len(candidates) == 0 {
		return nil
	}

	nodes := make([]booth.Booth, 0, len(candidates)+1)
	nodes = append(nodes, origin)
	nodes = append(nodes, candidates...)

	dist := s.matrix(nodes)
	order := nearestNeighbor(dist)
	if s.opts.TwoOpt && (s.opts.TwoOptLimit == 0 || len(candidates) <= s.opts.TwoOptLimit) {
		order = twoOpt(dist, order)
	}

	path := make([]booth.Booth, 0, len(candidates))
	for _, idx := range order[1:] {
		path = append(path, nodes[idx])
	}
	return path
}

func (s *Solver) matrix(nodes []booth.Booth) [][]int {
	coords := make([]booth.Coordinate, len(nodes))
	for i, node := range nodes {
		coords[i] = s.model.Layout.Parse(node.Space)
	}

	dist := make([][]int, len(nodes))
	for i := range nodes {
		dist[i] = make([]int, len(nodes))
		for j := range nodes {
			if i == j {
				continue
			}
			dist[i][j] = s.model.Between(coords[i], coords[j])
		}
	}
	return dist
}

// nearestNeighbor builds a path from node 0, always stepping to the cheapest
// unvisited node. Ties go to the lower index.
func nearestNeighbor(dist [][]int) []int {
	n := len(dist)
	path := make([]int, 0, n)
	path = append(path, 0)
	visited := make([]bool, n)
	visited[0] = true

	current := 0
	for len(path) < n {
		next := -1
		for i := 1; i < n; i++ {
			if visited[i] {
				continue
			}
			if next == -1 || dist[current][i] < dist[current][next] {
				next = i
			}
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
	return path
}

// pathCost sums the edges of an open path.
func pathCost(dist [][]int, path []int) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += dist[path[i-1]][path[i]]
	}
	return total
}
