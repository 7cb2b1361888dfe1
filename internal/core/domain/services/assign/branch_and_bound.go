package assign

import (
	"errors"
	"math"
	"sort"
	"time"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/order"
)

// ErrSolverTimeout is returned when the branch-and-bound search exceeds its
// deadline. The orchestrator catches it and retries with the multi-criteria
// greedy solver unless fallback is disabled.
var ErrSolverTimeout = errors.New("branch and bound deadline exceeded")

const (
	// bbBlockedCost marks infeasible (order, courier) cells.
	bbBlockedCost = 9999.0
	// bbDummyCost prices leaving an order unassigned, cheap enough to beat
	// any blocked cell but dearer than any feasible one.
	bbDummyCost = 1.2
	// bbDeadlineCheckMask throttles clock reads to one per 1024 nodes.
	bbDeadlineCheckMask = 1023
)

// BranchAndBound is the exact assignment solver: it builds an
// orders x columns cost matrix from the pair score (courier columns first,
// then dummy columns allowing partial assignment) and enumerates
// one-column-per-order matchings with lower-bound pruning.
//
// Each courier column is used at most once, so branch-and-bound yields at
// most one order per courier; it targets small contested batches where
// exactness matters more than throughput.
type BranchAndBound struct {
	cfg Config
}

// Assign matches orders to couriers minimizing total matrix cost. Orders
// landing on a dummy column, and orders excluded by weather, end up in
// Unassigned. On deadline the search surrenders with ErrSolverTimeout.
func (s *BranchAndBound) Assign(couriers []*courier.Courier, orders []*order.Order, _ Scenario) (*Result, error) {
	feas := newFeasibility()
	deliverable, rejected := splitByWeather(orders, s.cfg.Weather, feas)

	res := emptyResult(couriers)
	res.Unassigned = append(res.Unassigned, rejected...)
	if len(deliverable) == 0 {
		res.noteRejections(feas)
		return res, nil
	}

	rows := len(deliverable)
	realCols := len(couriers)
	cols := rows
	if realCols > cols {
		cols = realCols
	}
	cols += 3

	cost := make([][]float64, rows)
	for i, o := range deliverable {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			switch {
			case j >= realCols:
				row[j] = bbDummyCost
			default:
				if score := feas.score(couriers[j], o); score > 0 {
					row[j] = 1 - score
				} else {
					row[j] = bbBlockedCost
				}
			}
		}
		cost[i] = row
	}

	search := newMatrixSearch(cost, time.Now().Add(s.cfg.Deadline))
	picks, total, err := search.run()
	if err != nil {
		return nil, err
	}

	for i, j := range picks {
		// A blocked cell can still be picked when the dummy columns run
		// out; it is an infeasible pair, not an assignment.
		if j < realCols && cost[i][j] < bbBlockedCost {
			id := couriers[j].ID()
			res.Assignments[id] = append(res.Assignments[id], deliverable[i])
		} else {
			res.Unassigned = append(res.Unassigned, deliverable[i])
		}
	}
	res.TotalCost = total
	res.noteRejections(feas)
	return res, nil
}

// matrixSearch enumerates one-column-per-row matchings over a cost matrix.
// It keeps the per-row column order sorted by ascending cost and prunes with
// the classic per-row minimum lower bound.
type matrixSearch struct {
	cost     [][]float64
	deadline time.Time

	// rowOrder holds, per row, the column indices sorted by ascending cost.
	rowOrder [][]int
	// suffixMin[i] is the sum of row minima for rows i..end; suffixMin[rows]
	// is 0. current + suffixMin[row] bounds any completion from row on.
	suffixMin []float64

	used  []bool
	picks []int

	best     []int
	bestCost float64
	nodes    int
}

func newMatrixSearch(cost [][]float64, deadline time.Time) *matrixSearch {
	rows := len(cost)
	cols := len(cost[0])

	s := &matrixSearch{
		cost:      cost,
		deadline:  deadline,
		rowOrder:  make([][]int, rows),
		suffixMin: make([]float64, rows+1),
		used:      make([]bool, cols),
		picks:     make([]int, rows),
		bestCost:  math.Inf(1),
	}

	for i := rows - 1; i >= 0; i-- {
		rowMin := math.Inf(1)
		colOrder := make([]int, cols)
		for j := 0; j < cols; j++ {
			colOrder[j] = j
			if cost[i][j] < rowMin {
				rowMin = cost[i][j]
			}
		}
		row := cost[i]
		sort.Slice(colOrder, func(a, b int) bool {
			if row[colOrder[a]] != row[colOrder[b]] {
				return row[colOrder[a]] < row[colOrder[b]]
			}
			return colOrder[a] < colOrder[b]
		})
		s.rowOrder[i] = colOrder
		s.suffixMin[i] = s.suffixMin[i+1] + rowMin
	}

	return s
}

func (s *matrixSearch) run() ([]int, float64, error) {
	if err := s.walk(0, 0); err != nil {
		return nil, 0, err
	}
	return s.best, s.bestCost, nil
}

func (s *matrixSearch) walk(row int, current float64) error {
	s.nodes++
	if s.nodes&bbDeadlineCheckMask == 0 && time.Now().After(s.deadline) {
		return ErrSolverTimeout
	}

	if row == len(s.cost) {
		if current < s.bestCost {
			s.bestCost = current
			s.best = append(s.best[:0:0], s.picks...)
		}
		return nil
	}

	if current+s.suffixMin[row] >= s.bestCost {
		return nil
	}

	for _, j := range s.rowOrder[row] {
		if s.used[j] {
			continue
		}
		next := current + s.cost[row][j]
		if next >= s.bestCost {
			// Columns are sorted ascending: every later column is at
			// least as expensive.
			break
		}

		s.used[j] = true
		s.picks[row] = j
		err := s.walk(row+1, next)
		s.used[j] = false
		if err != nil {
			return err
		}
	}

	return nil
}
