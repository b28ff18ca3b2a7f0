// Package graph implements a small directed stage graph with conditional
// branching. Stages transform a shared state value; conditional edge
// functions pick the next stage by name. The graph is acyclic and runs
// each invocation to a terminal edge or an error.
package graph

import (
	"context"
	"fmt"
)

const (
	// Start is the implicit entry vertex.
	Start = "__start__"
	// End terminates an invocation.
	End = "__end__"
)

// NodeFunc runs one stage, returning the updated state.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// CondFunc inspects the state after a stage and names the branch to take.
type CondFunc[S any] func(state S) string

type conditional[S any] struct {
	fn      CondFunc[S]
	targets map[string]string // branch label -> node name (or End)
}

// Graph is a mutable builder; call Compile before invoking.
type Graph[S any] struct {
	nodes map[string]NodeFunc[S]
	edges map[string]string
	conds map[string]conditional[S]
}

func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes: make(map[string]NodeFunc[S]),
		edges: make(map[string]string),
		conds: make(map[string]conditional[S]),
	}
}

func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// AddEdge wires an unconditional transition. Use Start and End for the
// graph boundaries.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// AddConditionalEdges wires a branch point: after `from` runs, cond picks
// a label and targets maps it to the next node.
func (g *Graph[S]) AddConditionalEdges(from string, cond CondFunc[S], targets map[string]string) *Graph[S] {
	g.conds[from] = conditional[S]{fn: cond, targets: targets}
	return g
}

// Compiled is an immutable, validated graph ready to invoke.
type Compiled[S any] struct {
	g *Graph[S]
}

// Compile validates that every edge points at a known node and that the
// graph has an entry edge and no cycles.
func (g *Graph[S]) Compile() (*Compiled[S], error) {
	if _, ok := g.edges[Start]; !ok {
		return nil, fmt.Errorf("graph: no edge from start")
	}
	check := func(from, to string) error {
		if to == End {
			return nil
		}
		if _, ok := g.nodes[to]; !ok {
			return fmt.Errorf("graph: edge %s -> %s targets unknown node", from, to)
		}
		return nil
	}
	for from, to := range g.edges {
		if err := check(from, to); err != nil {
			return nil, err
		}
	}
	for from, c := range g.conds {
		for label, to := range c.targets {
			if err := check(from+"["+label+"]", to); err != nil {
				return nil, err
			}
		}
	}
	if err := g.detectCycle(); err != nil {
		return nil, err
	}
	return &Compiled[S]{g: g}, nil
}

func (g *Graph[S]) successors(name string) []string {
	var out []string
	if to, ok := g.edges[name]; ok && to != End {
		out = append(out, to)
	}
	if c, ok := g.conds[name]; ok {
		for _, to := range c.targets {
			if to != End {
				out = append(out, to)
			}
		}
	}
	return out
}

func (g *Graph[S]) detectCycle() error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var visit func(string) error
	visit = func(n string) error {
		color[n] = grey
		for _, next := range g.successors(n) {
			switch color[next] {
			case grey:
				return fmt.Errorf("graph: cycle through %s", next)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[n] = black
		return nil
	}
	for name := range g.nodes {
		if color[name] == white {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Invoke runs the graph from Start until End, threading the state through
// each stage. Stage errors and context cancellation abort the run.
func (c *Compiled[S]) Invoke(ctx context.Context, state S) (S, error) {
	current := c.g.edges[Start]
	for current != End {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		fn, ok := c.g.nodes[current]
		if !ok {
			return state, fmt.Errorf("graph: unknown node %q", current)
		}
		var err error
		state, err = fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("graph: node %s: %w", current, err)
		}

		if cond, ok := c.g.conds[current]; ok {
			label := cond.fn(state)
			next, ok := cond.targets[label]
			if !ok {
				return state, fmt.Errorf("graph: node %s: no target for branch %q", current, label)
			}
			current = next
			continue
		}
		next, ok := c.g.edges[current]
		if !ok {
			return state, fmt.Errorf("graph: node %s has no outgoing edge", current)
		}
		current = next
	}
	return state, nil
}
