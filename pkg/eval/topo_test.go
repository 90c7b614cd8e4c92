package eval

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// chainGraph builds START -> n1 -> ... -> nk -> END.
func chainGraph(interior ...string) workflow.Graph {
	nodes := append([]string{workflow.StartNode}, interior...)
	nodes = append(nodes, workflow.EndNode)
	edges := make([]workflow.Edge, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		edges = append(edges, workflow.Edge{From: i, To: i + 1})
	}
	return workflow.Graph{Nodes: nodes, Edges: edges}
}

func TestEnumerateChain(t *testing.T) {
	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)

	got, err := e.Enumerate(chainGraph("A", "B", "C"))
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	want := [][]string{{"A", "B", "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enumerate() = %v, want %v", got, want)
	}
}

func TestEnumerateDiamond(t *testing.T) {
	// START -> A,B -> C -> END: A and B are interchangeable.
	g := workflow.Graph{
		Nodes: []string{workflow.StartNode, "A", "B", "C", workflow.EndNode},
		Edges: []workflow.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 3}, {From: 2, To: 3}, {From: 3, To: 4}},
	}

	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	got, err := e.Enumerate(g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	want := [][]string{{"A", "B", "C"}, {"B", "A", "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enumerate() = %v, want %v", got, want)
	}
}

func TestEnumerateLimit(t *testing.T) {
	// Six independent interior nodes give 6! = 720 orderings.
	nodes := []string{workflow.StartNode}
	var edges []workflow.Edge
	for i := 1; i <= 6; i++ {
		nodes = append(nodes, fmt.Sprintf("N%d", i))
		edges = append(edges, workflow.Edge{From: 0, To: i})
	}
	endIdx := len(nodes)
	nodes = append(nodes, workflow.EndNode)
	for i := 1; i < endIdx; i++ {
		edges = append(edges, workflow.Edge{From: i, To: endIdx})
	}
	g := workflow.Graph{Nodes: nodes, Edges: edges}

	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	got, err := e.Enumerate(g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(got) != DefaultEnumLimit {
		t.Errorf("Enumerate() returned %d orderings, want %d", len(got), DefaultEnumLimit)
	}
}

func TestEnumerateBypass(t *testing.T) {
	interior := make([]string, DefaultEnumBypassNodes)
	for i := range interior {
		interior[i] = fmt.Sprintf("N%d", i)
	}
	g := chainGraph(interior...)

	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	got, err := e.Enumerate(g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("bypass should return a single ordering, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], interior) {
		t.Errorf("bypass ordering = %v, want input order %v", got[0], interior)
	}
}

func TestEnumerateBypassSkipsCycleCheck(t *testing.T) {
	interior := make([]string, DefaultEnumBypassNodes)
	for i := range interior {
		interior[i] = fmt.Sprintf("N%d", i)
	}
	g := chainGraph(interior...)
	// Introduce a cycle among interior nodes. The bypass path never
	// inspects edges, so this still succeeds.
	g.Edges = append(g.Edges, workflow.Edge{From: 3, To: 1})

	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	got, err := e.Enumerate(g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], interior) {
		t.Errorf("bypass ordering = %v, want input order", got)
	}
}

func TestEnumerateCyclic(t *testing.T) {
	g := chainGraph("A", "B", "C")
	g.Edges = append(g.Edges, workflow.Edge{From: 3, To: 1}) // C -> A

	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	_, err := e.Enumerate(g)
	if !errors.Is(err, workflow.ErrGraphHasCycle) {
		t.Errorf("Enumerate() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestEnumerateEmptyGraph(t *testing.T) {
	e := NewEnumerator(DefaultEnumBypassNodes, DefaultEnumLimit)
	got, err := e.Enumerate(workflow.Graph{})
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("empty graph should yield one empty ordering, got %v", got)
	}
}
