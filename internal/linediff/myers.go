// Package linediff computes a line-level edit script between two
// slices using the Myers O(ND) algorithm, the same shape used by
// antgroup-hugescm's diferenco package for text diffing. It is
// trimmed to exactly what weave.DeltaWriter needs: an ordered list of
// delete/insert hunks. There is no histogram or patience variant and
// no character-level refinement, since a weave delta only needs *a*
// correct edit script, not a minimal one.
package linediff

import "slices"

// Change is one edit hunk: Del lines starting at P1 in the old
// sequence are replaced by Ins lines starting at P2 in the new one.
// A Change with Del == 0 is a pure insertion; one with Ins == 0 is a
// pure deletion.
type Change struct {
	P1, P2   int
	Del, Ins int
}

// Diff returns the edit script turning old into next.
func Diff[E comparable](old, next []E) []Change {
	if len(old) == 0 && len(next) == 0 {
		return nil
	}
	if len(old) == 0 {
		return []Change{{Ins: len(next)}}
	}
	if len(next) == 0 {
		return []Change{{Del: len(old)}}
	}

	snakeEnd := func(x, y int) int {
		for x < len(old) && y < len(next) && old[x] == next[y] {
			x++
			y++
		}
		return x
	}

	// furthest[k] holds the largest x reachable on diagonal k (x-y=k)
	// using exactly d non-diagonal moves; trace[k] remembers the path
	// that got there so the script can be reconstructed afterwards.
	furthest := newDiagonalInts()
	trace := newDiagonalPaths()

	x0 := snakeEnd(0, 0)
	furthest.set(0, x0)
	if x0 == 0 {
		trace.set(0, nil)
	} else {
		trace.set(0, &snake{x: 0, y: 0, len: x0})
	}

	var k int
search:
	for d := 1; ; d++ {
		lo := -min(d, len(next)+d%2)
		hi := min(d, len(old)+d%2)
		for k = lo; k <= hi; k += 2 {
			var fromTop, fromLeft = -1, -1
			if k != hi {
				fromTop = furthest.get(k + 1)
			}
			if k != lo {
				fromLeft = furthest.get(k-1) + 1
			}
			x := min(max(fromTop, fromLeft), len(old))
			y := x - k
			if x > len(old) || y > len(next) {
				continue
			}
			xEnd := snakeEnd(x, y)
			furthest.set(k, xEnd)

			var prev *snake
			if x == fromTop {
				prev = trace.get(k + 1)
			} else {
				prev = trace.get(k - 1)
			}
			if xEnd != x {
				trace.set(k, &snake{pre: prev, x: x, y: y, len: xEnd - x})
			} else {
				trace.set(k, prev)
			}
			if furthest.get(k) == len(old) && furthest.get(k)-k == len(next) {
				break search
			}
		}
	}

	var changes []Change
	s := trace.get(k)
	endX, endY := len(old), len(next)
	for {
		var sx, sy int
		if s != nil {
			sx, sy = s.x+s.len, s.y+s.len
		}
		if sx != endX || sy != endY {
			changes = append(changes, Change{P1: sx, P2: sy, Del: endX - sx, Ins: endY - sy})
		}
		if s == nil {
			break
		}
		endX, endY = s.x, s.y
		s = s.pre
	}
	slices.Reverse(changes)
	return changes
}

// snake is one diagonal run (a maximal stretch of matching elements)
// reached while searching for the shortest edit script.
type snake struct {
	pre      *snake
	x, y, len int
}

// diagonalInts and diagonalPaths hold per-diagonal state indexed by k,
// which ranges over negative and non-negative integers. diagonalInts
// grows its backing slices on demand rather than pre-sizing for the
// worst case, since most diffed line ranges are small; diagonalPaths
// keeps its entries in maps.
type diagonalInts struct{ pos, neg []int }

func newDiagonalInts() *diagonalInts {
	return &diagonalInts{pos: make([]int, 8), neg: make([]int, 8)}
}

func (d *diagonalInts) get(k int) int {
	if k < 0 {
		return d.neg[-k-1]
	}
	return d.pos[k]
}

func (d *diagonalInts) set(k, v int) {
	if k < 0 {
		k = -k - 1
		d.neg = growInts(d.neg, k)
		d.neg[k] = v
		return
	}
	d.pos = growInts(d.pos, k)
	d.pos[k] = v
}

func growInts(s []int, i int) []int {
	if i < len(s) {
		return s
	}
	grown := make([]int, max(i+1, len(s)*2))
	copy(grown, s)
	return grown
}

type diagonalPaths struct {
	pos, neg map[int]*snake
}

func newDiagonalPaths() *diagonalPaths {
	return &diagonalPaths{pos: make(map[int]*snake), neg: make(map[int]*snake)}
}

func (d *diagonalPaths) get(k int) *snake {
	if k < 0 {
		return d.neg[-k-1]
	}
	return d.pos[k]
}

func (d *diagonalPaths) set(k int, v *snake) {
	if k < 0 {
		d.neg[-k-1] = v
		return
	}
	d.pos[k] = v
}
