// Package trip implements C7: an approximate shortest Hamiltonian tour
// over a set of snapped phantoms, built on top of C5's weight matrix.
// Neither the teacher nor the rest of the retrieval pack contains a TSP
// solver, so this module is built directly from §4.7's algorithm
// description (farthest-insertion construction, then 2-opt local search),
// written in the teacher's plain, unabstracted function style rather than
// introducing a generic solver framework.
package trip

import "math"

const unreachable = math.MaxFloat64

// Options constrains the tour per §4.7 ("roundtrip and fixed-endpoints
// variants are supported by constraining the start/end columns").
type Options struct {
	Roundtrip     bool
	FixedStart    bool
	StartIndex    int
	FixedEnd      bool
	EndIndex      int
}

// Result is the computed visiting order (indices into the original
// phantom list) and its total weight.
type Result struct {
	Order  []int
	Weight float64
}

// Solve computes an approximate optimal tour over matrix (a square N x N
// weight matrix from C5, matrix[i][j] = weight from i to j).
func Solve(matrix [][]float64, opts Options) Result {
	n := len(matrix)
	if n == 0 {
		return Result{}
	}
	if n == 1 {
		return Result{Order: []int{0}, Weight: 0}
	}

	order := farthestInsertion(matrix, opts)
	order = twoOpt(matrix, order, opts)

	return Result{Order: order, Weight: tourWeight(matrix, order, opts)}
}

// farthestInsertion builds an initial tour by repeatedly inserting the
// node farthest from the current tour at its cheapest insertion point,
// per §4.7.
func farthestInsertion(matrix [][]float64, opts Options) []int {
	n := len(matrix)
	start := 0
	if opts.FixedStart {
		start = opts.StartIndex
	}

	inTour := make([]bool, n)
	tour := []int{start}
	inTour[start] = true

	if opts.FixedEnd && opts.EndIndex != start {
		tour = append(tour, opts.EndIndex)
		inTour[opts.EndIndex] = true
	} else {
		// seed with the farthest node from start to give the heuristic a
		// non-degenerate initial edge.
		farthest, dist := -1, -1.0
		for j := 0; j < n; j++ {
			if inTour[j] {
				continue
			}
			if matrix[start][j] > dist {
				dist = matrix[start][j]
				farthest = j
			}
		}
		if farthest != -1 {
			tour = append(tour, farthest)
			inTour[farthest] = true
		}
	}

	for len(tour) < n {
		// pick the unvisited node with the greatest minimum distance to
		// any node already in the tour ("farthest").
		bestNode, bestMinDist := -1, -1.0
		for j := 0; j < n; j++ {
			if inTour[j] {
				continue
			}
			minDist := unreachable
			for _, t := range tour {
				if matrix[t][j] < minDist {
					minDist = matrix[t][j]
				}
			}
			if minDist > bestMinDist {
				bestMinDist = minDist
				bestNode = j
			}
		}
		if bestNode == -1 {
			break
		}

		// cheapest insertion point along the current tour.
		bestPos, bestCost := 1, math.Inf(1)
		limit := len(tour)
		if !opts.Roundtrip {
			limit = len(tour) - 1
		}
		for pos := 1; pos <= limit; pos++ {
			a := tour[pos-1]
			b := tour[pos%len(tour)]
			cost := matrix[a][bestNode] + matrix[bestNode][b] - matrix[a][b]
			if cost < bestCost {
				bestCost = cost
				bestPos = pos
			}
		}

		tour = insertAt(tour, bestPos, bestNode)
		inTour[bestNode] = true
	}

	return tour
}

func insertAt(tour []int, pos, node int) []int {
	out := make([]int, 0, len(tour)+1)
	out = append(out, tour[:pos]...)
	out = append(out, node)
	out = append(out, tour[pos:]...)
	return out
}

// twoOpt repeatedly reverses tour segments that shorten the total weight,
// until no improving swap remains, per §4.7.
func twoOpt(matrix [][]float64, tour []int, opts Options) []int {
	n := len(tour)
	improved := true
	for improved {
		improved = false
		for i := 1; i < n-1; i++ {
			if opts.FixedStart && i == 0 {
				continue
			}
			for j := i + 1; j < n; j++ {
				if opts.FixedEnd && j == n-1 && !opts.Roundtrip {
					continue
				}
				if !canReverse(tour, i, j, opts) {
					continue
				}
				delta := twoOptDelta(matrix, tour, i, j, opts)
				if delta < -1e-9 {
					reverseSegment(tour, i, j)
					improved = true
				}
			}
		}
	}
	return tour
}

func canReverse(tour []int, i, j int, opts Options) bool {
	return i < j && j < len(tour)
}

// twoOptDelta is the change in total weight from reversing tour[i..j].
// For an open path (not Roundtrip) with j at the last index, only the
// edge (a,b) is replaced by (a,c); there is no trailing edge to re-break.
func twoOptDelta(matrix [][]float64, tour []int, i, j int, opts Options) float64 {
	n := len(tour)
	a, b := tour[i-1], tour[i]
	c := tour[j]
	if !opts.Roundtrip && j == n-1 {
		return matrix[a][c] - matrix[a][b]
	}
	d := tour[(j+1)%n]
	before := matrix[a][b] + matrix[c][d]
	after := matrix[a][c] + matrix[b][d]
	return after - before
}

func reverseSegment(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

func tourWeight(matrix [][]float64, tour []int, opts Options) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		total += matrix[tour[i]][tour[i+1]]
	}
	if opts.Roundtrip && len(tour) > 1 {
		total += matrix[tour[len(tour)-1]][tour[0]]
	}
	return total
}
