package workflow

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func chain(labels ...string) Graph {
	nodes := append([]string{StartNode}, labels...)
	nodes = append(nodes, EndNode)
	edges := make([]Edge, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		edges = append(edges, Edge{From: i, To: i + 1})
	}
	return Graph{Nodes: nodes, Edges: edges}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		wantErr error
	}{
		{
			name:  "Valid",
			graph: chain("a", "b"),
		},
		{
			name:  "Empty",
			graph: Graph{},
		},
		{
			name: "NegativeIndex",
			graph: Graph{
				Nodes: []string{StartNode, EndNode},
				Edges: []Edge{{From: -1, To: 1}},
			},
			wantErr: ErrInvalidEdgeEndpoint,
		},
		{
			name: "IndexPastEnd",
			graph: Graph{
				Nodes: []string{StartNode, EndNode},
				Edges: []Edge{{From: 0, To: 2}},
			},
			wantErr: ErrInvalidEdgeEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckAcyclic(t *testing.T) {
	if err := chain("a", "b", "c").CheckAcyclic(); err != nil {
		t.Errorf("chain should be acyclic, got %v", err)
	}

	cyclic := Graph{
		Nodes: []string{StartNode, "a", "b", EndNode},
		Edges: []Edge{{0, 1}, {1, 2}, {2, 1}, {2, 3}},
	}
	if err := cyclic.CheckAcyclic(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("CheckAcyclic() = %v, want ErrGraphHasCycle", err)
	}
}

func TestInterior(t *testing.T) {
	g := chain("go to kitchen", "take sponge")
	got := g.Interior()
	want := []string{"go to kitchen", "take sponge"}
	if len(got) != len(want) {
		t.Fatalf("Interior() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interior()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	empty := Graph{Nodes: []string{StartNode, EndNode}}
	if len(empty.Interior()) != 0 {
		t.Errorf("sentinel-only graph should have empty interior")
	}
}

func TestReachabilityChain(t *testing.T) {
	// A linear chain of n+2 nodes (sentinels included) has C(n+2, 2)
	// reachable ordered pairs.
	for _, interior := range []int{0, 1, 3, 5} {
		labels := make([]string, interior)
		for i := range labels {
			labels[i] = strings.Repeat("x", i+1)
		}
		g := chain(labels...)
		total := len(g.Nodes)
		closure := Reachability(total, g.Edges)
		want := total * (total - 1) / 2
		if len(closure) != want {
			t.Errorf("chain with %d interior nodes: closure size = %d, want %d", interior, len(closure), want)
		}
	}
}

func TestReachabilityBranching(t *testing.T) {
	// Diamond: 0->1, 0->2, 1->3, 2->3.
	edges := []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
	closure := Reachability(4, edges)

	want := []Edge{{0, 1}, {0, 2}, {0, 3}, {1, 3}, {2, 3}}
	if len(closure) != len(want) {
		t.Fatalf("closure size = %d, want %d", len(closure), len(want))
	}
	for _, p := range want {
		if _, ok := closure[p]; !ok {
			t.Errorf("closure missing pair %v", p)
		}
	}
}

func TestReachabilityIgnoresOutOfRange(t *testing.T) {
	closure := Reachability(2, []Edge{{0, 1}, {0, 5}, {-1, 1}})
	if len(closure) != 1 {
		t.Errorf("closure size = %d, want 1", len(closure))
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := chain("go to kitchen", "take sponge")

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Contains(data, []byte("[0,1]")) && !bytes.Contains(data, []byte("[\n")) {
		// Edges must serialize as index pairs, not objects.
		if bytes.Contains(data, []byte(`"From"`)) || bytes.Contains(data, []byte(`"from"`)) {
			t.Fatalf("edges serialized as objects: %s", data)
		}
	}

	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if len(back.Nodes) != len(g.Nodes) || len(back.Edges) != len(g.Edges) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, g)
	}
	for i := range g.Edges {
		if back.Edges[i] != g.Edges[i] {
			t.Errorf("edge %d = %v, want %v", i, back.Edges[i], g.Edges[i])
		}
	}
}

func TestReadGraphWireFormat(t *testing.T) {
	raw := `{"nodes": ["START", "a", "b", "END"], "edges": [[0,1],[1,2],[2,3]]}`
	g, err := ReadGraph(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 3 {
		t.Fatalf("unexpected shape: %+v", g)
	}
	if g.Edges[1] != (Edge{From: 1, To: 2}) {
		t.Errorf("edge[1] = %v", g.Edges[1])
	}
}

func TestReadGraphRejectsBadEndpoints(t *testing.T) {
	raw := `{"nodes": ["START", "END"], "edges": [[0,7]]}`
	if _, err := ReadGraph(strings.NewReader(raw)); !errors.Is(err, ErrInvalidEdgeEndpoint) {
		t.Errorf("ReadGraph = %v, want ErrInvalidEdgeEndpoint", err)
	}
}
