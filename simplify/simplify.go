// Package simplify assigns a Douglas-Peucker importance score to every
// vertex of a line or ring, so that the tile factory can later drop
// low-importance vertices once a tile's tolerance exceeds them.
package simplify

import "github.com/pdok/tilepyramid/projected"

type span struct {
	first, last int
}

// Points walks pts with an explicit work stack rather than native recursion,
// so a pathological input with thousands of collinear vertices can't blow
// the goroutine stack. The first and last vertex always get importance 0
// (always kept); every interior vertex gets the squared distance from the
// chord spanning its current left/right anchors, the largest such distance
// found anywhere in its sub-span. Points returns the overall maximum score
// assigned, i.e. the tolerance above which the whole line collapses to its
// two endpoints.
func Points(pts []projected.Point) float64 {
	n := len(pts)
	if n == 0 {
		return 0
	}
	pts[0].Z = 0
	pts[n-1].Z = 0

	var maxTolerance float64
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		first, last := s.first, s.last
		if last-first < 2 {
			continue
		}

		a, b := pts[first], pts[last]
		var maxDist float64
		idx := -1
		for i := first + 1; i < last; i++ {
			d := segDistSq(pts[i], a, b)
			if d > maxDist {
				maxDist = d
				idx = i
			}
		}
		if idx == -1 || maxDist == 0 {
			// every interior vertex lies on the chord: its distance is 0.
			for i := first + 1; i < last; i++ {
				pts[i].Z = 0
			}
			continue
		}

		pts[idx].Z = maxDist
		if maxDist > maxTolerance {
			maxTolerance = maxDist
		}
		stack = append(stack, span{first, idx}, span{idx, last})
	}
	return maxTolerance
}

// segDistSq is the squared distance from p to the closest point on segment
// a-b (not the infinite line through a,b).
func segDistSq(p, a, b projected.Point) float64 {
	x, y := a.X, a.Y
	dx := b.X - x
	dy := b.Y - y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = p.X - x
	dy = p.Y - y
	return dx*dx + dy*dy
}
