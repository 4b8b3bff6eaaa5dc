// SPDX-License-Identifier: MIT

package pairwise

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDisconnected is returned when some competitors share no chain of
	// comparisons with the rest.
	ErrDisconnected = errors.New("pairwise: comparison graph is disconnected")

	// ErrNotStronglyConnected is returned when the graph is connected but the
	// win relation cannot lead from every competitor to every other one, e.g.
	// a competitor that never wins or never loses. Such a competitor has no
	// positive stationary mass.
	ErrNotStronglyConnected = errors.New("pairwise: comparison graph is not strongly connected")
)

// Graph is the directed comparison graph: one arc loser → winner per distinct
// ordered pair that occurs in the records. Adjacency lists are sorted by
// competitor index, so traversal order is deterministic.
type Graph struct {
	k   int
	out [][]int // out[u]: competitors that beat u at least once
	in  [][]int // in[v]: competitors that v beat at least once
}

// Graph builds the comparison graph of c.
func (c *Comparisons) Graph() *Graph {
	beats := make([][]bool, c.K) // beats[loser][winner]
	for i := range beats {
		beats[i] = make([]bool, c.K)
	}
	for _, r := range c.Records {
		beats[r.Loser][r.Winner] = true
	}
	g := &Graph{k: c.K, out: make([][]int, c.K), in: make([][]int, c.K)}
	var u, v int
	for u = 0; u < c.K; u++ {
		for v = 0; v < c.K; v++ {
			if beats[u][v] {
				g.out[u] = append(g.out[u], v)
				g.in[v] = append(g.in[v], u)
			}
		}
	}

	return g
}

// walker holds breadth-first search state over one adjacency direction.
type walker struct {
	adj     [][]int
	queue   []int
	visited []bool
}

// reach returns the visited mask of a BFS from start following any of the
// given adjacency lists.
func reach(k, start int, adjs ...[][]int) []bool {
	w := &walker{queue: make([]int, 0, k), visited: make([]bool, k)}
	w.visited[start] = true
	w.queue = append(w.queue, start)
	for len(w.queue) > 0 {
		u := w.queue[0]
		w.queue = w.queue[1:]
		for _, w.adj = range adjs {
			for _, v := range w.adj[u] {
				if !w.visited[v] {
					w.visited[v] = true
					w.queue = append(w.queue, v)
				}
			}
		}
	}

	return w.visited
}

// Connected reports whether every competitor is reachable from competitor 0
// ignoring arc direction, and lists the unreachable ones otherwise.
func (g *Graph) Connected() (bool, []int) {
	return missing(reach(g.k, 0, g.out, g.in))
}

// StronglyConnected reports whether every competitor can reach, and be
// reached from, competitor 0 along win arcs. It returns the competitors that
// violate either direction.
func (g *Graph) StronglyConnected() (bool, []int) {
	fwd := reach(g.k, 0, g.out)
	bwd := reach(g.k, 0, g.in)
	both := make([]bool, g.k)
	for i := range both {
		both[i] = fwd[i] && bwd[i]
	}

	return missing(both)
}

func missing(visited []bool) (bool, []int) {
	var out []int
	for i, ok := range visited {
		if !ok {
			out = append(out, i)
		}
	}

	return len(out) == 0, out
}

// CheckConnected verifies the comparison graph before any decomposition.
// names labels competitors in error messages (index order); it may be nil.
//
// Errors: ErrDisconnected, then ErrNotStronglyConnected (competitors with no
// wins are named first).
func (c *Comparisons) CheckConnected(names []string) error {
	g := c.Graph()
	if ok, bad := g.Connected(); !ok {
		return fmt.Errorf("%w: no comparison path to %s", ErrDisconnected, label(bad, names))
	}
	var winless []int
	for i, w := range c.Wins() {
		if w == 0 {
			winless = append(winless, i)
		}
	}
	if len(winless) > 0 {
		return fmt.Errorf("%w: %s never win", ErrNotStronglyConnected, label(winless, names))
	}
	if ok, bad := g.StronglyConnected(); !ok {
		return fmt.Errorf("%w: %s never win or never lose within a connected chain", ErrNotStronglyConnected, label(bad, names))
	}

	return nil
}

func label(idx []int, names []string) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		if j < len(names) {
			parts[i] = fmt.Sprintf("%q", names[j])
		} else {
			parts[i] = fmt.Sprintf("#%d", j)
		}
	}

	return strings.Join(parts, ", ")
}
