package eval

import "math"

// WeightedEdge is one admissible candidate/reference pairing with its weight.
type WeightedEdge struct {
	Left   int // candidate-side index
	Right  int // reference-side index
	Weight float64
}

// Assigner computes a maximum-weight matching over a weighted bipartite
// graph. The returned map pairs left indices to right indices; left indices
// absent from the map are unmatched. Implementations must be deterministic
// so evaluation results are reproducible.
//
// The interface exists so the matching algorithm is swappable independently
// of the scoring logic.
type Assigner interface {
	Assign(nLeft, nRight int, edges []WeightedEdge) map[int]int
}

// HungarianAssigner solves the assignment problem exactly with the
// Hungarian algorithm (Kuhn-Munkres with potentials, O(n³)).
//
// The bipartite graph is padded to a square matrix with zero-weight cells
// for absent edges; assignments landing on those cells are dropped from the
// result, which reduces perfect-assignment on the padded matrix to
// maximum-weight matching on the real edges whenever all real weights are
// positive (true here: weights are threshold-gated similarities).
type HungarianAssigner struct{}

// Assign returns the maximum-weight pairing of left to right indices.
func (HungarianAssigner) Assign(nLeft, nRight int, edges []WeightedEdge) map[int]int {
	result := make(map[int]int)
	if nLeft == 0 || nRight == 0 || len(edges) == 0 {
		return result
	}

	n := max(nLeft, nRight)

	// 1-indexed cost matrix; minimize negated weights.
	cost := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, n+1)
	}
	present := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e.Left < 0 || e.Left >= nLeft || e.Right < 0 || e.Right >= nRight {
			continue
		}
		cost[e.Left+1][e.Right+1] = -e.Weight
		present[[2]int{e.Left, e.Right}] = true
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[j] = row assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		usedCol := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			usedCol[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if usedCol[j] {
					continue
				}
				cur := cost[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if usedCol[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Augment along the found path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	for j := 1; j <= n; j++ {
		i := match[j]
		if i >= 1 && i <= nLeft && j <= nRight && present[[2]int{i - 1, j - 1}] {
			result[i-1] = j - 1
		}
	}
	return result
}

// Ensure HungarianAssigner implements Assigner.
var _ Assigner = HungarianAssigner{}
