// Package kdtree provides a static 2d index over sample points for
// radius lookups.
//
// Points are bulk-loaded once and queried many times. Indexes and
// coordinates live in two parallel flat slices sorted into an implicit
// tree whose leaves hold up to leafSize entries, so the index adds no
// per-node allocations.
package kdtree

import "math"

// DefaultLeafSize balances build time against lookup depth for plans in
// the tens of thousands of points.
const DefaultLeafSize = 64

// Point is a 2d coordinate with a payload.
type Point[T any] struct {
	X, Y float64
	Data T
}

// Tree is an immutable 2d index. A zero-length tree is valid and
// matches nothing.
type Tree[T any] struct {
	leafSize int
	points   []Point[T]
	idxs     []int
	coords   []float64
}

// New bulk-loads points into a tree. leafSize values below one fall
// back to DefaultLeafSize. The points slice is referenced, not copied.
func New[T any](points []Point[T], leafSize int) *Tree[T] {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}

	t := &Tree[T]{
		leafSize: leafSize,
		points:   points,
		idxs:     make([]int, len(points)),
		coords:   make([]float64, 2*len(points)),
	}
	for i, p := range points {
		t.idxs[i] = i
		t.coords[2*i] = p.X
		t.coords[2*i+1] = p.Y
	}

	build(t.idxs, t.coords, t.leafSize, 0, len(points)-1, 0)
	return t
}

// Len returns the number of indexed points.
func (t *Tree[T]) Len() int {
	return len(t.points)
}

// Within calls handler for every point at most radius away from (x, y),
// in no particular order. The scan stops early when handler returns
// false.
func (t *Tree[T]) Within(x, y, radius float64, handler func(p Point[T]) bool) {
	stack := []int{0, len(t.idxs) - 1, 0}
	r2 := radius * radius

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= t.leafSize {
			for i := left; i <= right; i++ {
				if distSq(t.coords[2*i], t.coords[2*i+1], x, y) <= r2 {
					if !handler(t.points[t.idxs[i]]) {
						return
					}
				}
			}
			continue
		}

		m := (left + right) / 2
		px := t.coords[2*m]
		py := t.coords[2*m+1]

		if distSq(px, py, x, y) <= r2 {
			if !handler(t.points[t.idxs[m]]) {
				return
			}
		}

		nextAxis := (axis + 1) % 2
		if (axis == 0 && x-radius <= px) || (axis != 0 && y-radius <= py) {
			stack = append(stack, left, m-1, nextAxis)
		}
		if (axis == 0 && x+radius >= px) || (axis != 0 && y+radius >= py) {
			stack = append(stack, m+1, right, nextAxis)
		}
	}
}

func build(idxs []int, coords []float64, leafSize, left, right, depth int) {
	if right-left <= leafSize {
		return
	}

	m := (left + right) / 2
	quickselect(idxs, coords, m, left, right, depth%2)

	build(idxs, coords, leafSize, left, m-1, depth+1)
	build(idxs, coords, leafSize, m+1, right, depth+1)
}

// quickselect partially sorts [left, right] so the element at k lands in
// its sorted position along axis, using the Floyd-Rivest bounds to keep
// large partitions cheap.
func quickselect(idxs []int, coords []float64, k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n)
			if m < n/2 {
				sd = -sd
			}
			newLeft := max(left, int(float64(k)-m*s/n+sd))
			newRight := min(right, int(float64(k)+(n-m)*s/n+sd))
			quickselect(idxs, coords, k, newLeft, newRight, axis)
		}

		pivot := coords[2*k+axis]
		i := left
		j := right

		swapItem(idxs, coords, left, k)
		if coords[2*right+axis] > pivot {
			swapItem(idxs, coords, left, right)
		}

		for i < j {
			swapItem(idxs, coords, i, j)
			i++
			j--
			for coords[2*i+axis] < pivot {
				i++
			}
			for coords[2*j+axis] > pivot {
				j--
			}
		}

		if coords[2*left+axis] == pivot {
			swapItem(idxs, coords, left, j)
		} else {
			j++
			swapItem(idxs, coords, j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func swapItem(idxs []int, coords []float64, i, j int) {
	idxs[i], idxs[j] = idxs[j], idxs[i]
	coords[2*i], coords[2*j] = coords[2*j], coords[2*i]
	coords[2*i+1], coords[2*j+1] = coords[2*j+1], coords[2*i+1]
}

func distSq(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
