// Package assignment solves the minimum-cost bipartite assignment problem.
package assignment

import (
	"errors"
	"math"
)

// Unassigned marks a row that received no column
const Unassigned = -1

// ErrMalformedMatrix is returned for ragged or NaN-valued cost matrices
var ErrMalformedMatrix = errors.New("cost matrix must be rectangular and free of NaN values")

// Solve returns, for every row of costs, the column of a minimum-cost
// assignment or Unassigned. Rectangular matrices are padded to a square
// one with a cost above every real cost, so at most min(rows, cols) rows
// receive a column.
//
// The implementation is the O(n³) shortest augmenting path variant of the
// Hungarian algorithm with row and column potentials.
func Solve(costs [][]float64) ([]int, error) {
	rows := len(costs)
	if rows == 0 {
		return nil, nil
	}
	cols := len(costs[0])
	maxCost := 0.0
	for _, row := range costs {
		if len(row) != cols {
			return nil, ErrMalformedMatrix
		}
		for _, c := range row {
			if math.IsNaN(c) {
				return nil, ErrMalformedMatrix
			}
			if !math.IsInf(c, 0) && math.Abs(c) > maxCost {
				maxCost = math.Abs(c)
			}
		}
	}

	result := make([]int, rows)
	for i := range result {
		result[i] = Unassigned
	}
	if cols == 0 {
		return result, nil
	}

	n := max(rows, cols)
	sentinel := maxCost + 1
	a := make([][]float64, n+1)
	for i := 1; i <= n; i++ {
		a[i] = make([]float64, n+1)
		for j := 1; j <= n; j++ {
			if i <= rows && j <= cols {
				a[i][j] = costs[i-1][j-1]
			} else {
				a[i][j] = sentinel
			}
		}
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j] is the row assigned to column j
	way := make([]int, n+1) // previous column on the augmenting path
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 == 0 {
				// only infinite costs left for this row
				break
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		if p[j0] != 0 {
			continue
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	for j := 1; j <= cols; j++ {
		if p[j] != 0 && p[j] <= rows {
			result[p[j]-1] = j - 1
		}
	}
	return result, nil
}

// TotalCost sums the costs of the assigned cells of a solution
func TotalCost(costs [][]float64, solution []int) float64 {
	total := 0.0
	for i, j := range solution {
		if j != Unassigned {
			total += costs[i][j]
		}
	}
	return total
}
