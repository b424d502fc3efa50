package lineage

import "slices"

// Edge is a directed lineage link from an upstream to a downstream node.
type Edge struct {
	From string
	To   string
}

// Graph is an adjacency-list lineage graph keyed by GUID.
//
// Neighbour lists keep the order in which edges were added and ignore
// duplicates. Nodes can be marked as processes so that asset-level queries
// can step over them.
//
// The zero value is not usable; use [NewGraph]. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	nodes      []string
	index      map[string]struct{}
	downstream map[string][]string
	upstream   map[string][]string
	edges      []Edge
	processes  map[string]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:      map[string]struct{}{},
		downstream: map[string][]string{},
		upstream:   map[string][]string{},
		processes:  map[string]struct{}{},
	}
}

// AddNode adds guid if not present.
func (g *Graph) AddNode(guid string) {
	if _, ok := g.index[guid]; ok {
		return
	}
	g.index[guid] = struct{}{}
	g.nodes = append(g.nodes, guid)
}

// AddEdge links from to to, adding both nodes as needed.
// Repeated edges and self-loops are ignored.
func (g *Graph) AddEdge(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.downstream[from], to) {
		return
	}
	g.downstream[from] = append(g.downstream[from], to)
	g.upstream[to] = append(g.upstream[to], from)
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// MarkProcess flags guid as a process node. It does not add guid to the
// graph.
func (g *Graph) MarkProcess(guid string) {
	g.processes[guid] = struct{}{}
}

// IsProcess reports whether guid was marked as a process.
func (g *Graph) IsProcess(guid string) bool {
	_, ok := g.processes[guid]
	return ok
}

// Has reports whether guid is in the graph.
func (g *Graph) Has(guid string) bool {
	_, ok := g.index[guid]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Upstream returns the immediate upstream neighbours of guid.
func (g *Graph) Upstream(guid string) []string { return slices.Clone(g.upstream[guid]) }

// Downstream returns the immediate downstream neighbours of guid.
func (g *Graph) Downstream(guid string) []string { return slices.Clone(g.downstream[guid]) }

// AllUpstreamDFS returns every node reachable upstream of guid in
// depth-first order. guid itself is not included and each node appears once.
func (g *Graph) AllUpstreamDFS(guid string) []string { return dfs(guid, g.upstream) }

// AllDownstreamDFS returns every node reachable downstream of guid in
// depth-first order. guid itself is not included and each node appears once.
func (g *Graph) AllDownstreamDFS(guid string) []string { return dfs(guid, g.downstream) }

// AllUpstreamAssetsDFS is AllUpstreamDFS without process nodes.
func (g *Graph) AllUpstreamAssetsDFS(guid string) []string {
	return g.withoutProcesses(g.AllUpstreamDFS(guid))
}

// AllDownstreamAssetsDFS is AllDownstreamDFS without process nodes.
func (g *Graph) AllDownstreamAssetsDFS(guid string) []string {
	return g.withoutProcesses(g.AllDownstreamDFS(guid))
}

// UpstreamAssets returns the assets one hop upstream of guid, stepping
// over a single process in between.
func (g *Graph) UpstreamAssets(guid string) []string { return g.assetHop(guid, g.upstream) }

// DownstreamAssets returns the assets one hop downstream of guid, stepping
// over a single process in between.
func (g *Graph) DownstreamAssets(guid string) []string { return g.assetHop(guid, g.downstream) }

// UpstreamProcesses returns the processes feeding guid.
func (g *Graph) UpstreamProcesses(guid string) []string {
	return slices.DeleteFunc(g.Upstream(guid), func(n string) bool { return !g.IsProcess(n) })
}

// DownstreamProcesses returns the processes reading from guid.
func (g *Graph) DownstreamProcesses(guid string) []string {
	return slices.DeleteFunc(g.Downstream(guid), func(n string) bool { return !g.IsProcess(n) })
}

func (g *Graph) withoutProcesses(guids []string) []string {
	return slices.DeleteFunc(guids, g.IsProcess)
}

func (g *Graph) assetHop(guid string, adj map[string][]string) []string {
	seen := map[string]struct{}{guid: {}}
	var out []string
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, n := range adj[guid] {
		if !g.IsProcess(n) {
			add(n)
			continue
		}
		for _, m := range adj[n] {
			if !g.IsProcess(m) {
				add(m)
			}
		}
	}
	return out
}

// dfs walks adj iteratively from start. Children are pushed in reverse so
// they are visited in insertion order.
func dfs(start string, adj map[string][]string) []string {
	visited := map[string]struct{}{start: {}}
	var out []string
	stack := reversed(adj[start])
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		out = append(out, n)
		for _, child := range reversed(adj[n]) {
			if _, ok := visited[child]; !ok {
				stack = append(stack, child)
			}
		}
	}
	return out
}

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
