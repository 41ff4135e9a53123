package organize

import (
	"sort"

	"github.com/poiesic/noema/core"
)

// Graph is the in-memory knowledge graph: an adjacency set over item ids.
// It has no durable form of its own and is replayed from persisted
// relationships on startup. Edges for deleted items are not pruned here;
// callers resolve ids against storage and skip the missing ones.
type Graph struct {
	edges map[core.ID]map[core.ID]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[core.ID]map[core.ID]struct{})}
}

// AddRelationship adds the relationship's directed edge, plus the reverse
// edge when the relationship type is bidirectional.
func (g *Graph) AddRelationship(rel *core.Relationship) {
	g.addEdge(rel.SourceId, rel.TargetId)
	if rel.Type.Bidirectional() {
		g.addEdge(rel.TargetId, rel.SourceId)
	}
}

func (g *Graph) addEdge(from, to core.ID) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[core.ID]struct{})
	}
	g.edges[from][to] = struct{}{}
	if g.edges[to] == nil {
		g.edges[to] = make(map[core.ID]struct{})
	}
}

// RebuildFrom resets the graph and replays the given relationships.
func (g *Graph) RebuildFrom(relationships []*core.Relationship) {
	g.edges = make(map[core.ID]map[core.ID]struct{}, len(relationships))
	for _, rel := range relationships {
		g.AddRelationship(rel)
	}
}

// Neighbors returns the direct successors of an id, sorted.
func (g *Graph) Neighbors(id core.ID) []core.ID {
	return sortedIDs(g.edges[id])
}

// NodeCount returns the number of items present in the graph.
func (g *Graph) NodeCount() int {
	return len(g.edges)
}

// RelatedItems walks the graph breadth-first from the id and returns every
// id reachable within maxDepth hops, nearest first, excluding the start.
func (g *Graph) RelatedItems(id core.ID, maxDepth int) []core.ID {
	if maxDepth <= 0 {
		return nil
	}
	if _, ok := g.edges[id]; !ok {
		return nil
	}

	visited := map[core.ID]bool{id: true}
	var related []core.ID
	frontier := []core.ID{id}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []core.ID
		for _, current := range frontier {
			for _, neighbor := range sortedIDs(g.edges[current]) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				related = append(related, neighbor)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return related
}

// Clusters extracts the connected components of the graph, treating edges as
// undirected, and keeps the components with at least minSize members.
// Components are sorted internally by id and ordered largest first.
func (g *Graph) Clusters(minSize int) [][]core.ID {
	undirected := make(map[core.ID]map[core.ID]struct{}, len(g.edges))
	link := func(a, b core.ID) {
		if undirected[a] == nil {
			undirected[a] = make(map[core.ID]struct{})
		}
		undirected[a][b] = struct{}{}
	}
	for from, targets := range g.edges {
		if undirected[from] == nil {
			undirected[from] = make(map[core.ID]struct{})
		}
		for to := range targets {
			link(from, to)
			link(to, from)
		}
	}

	nodes := make([]core.ID, 0, len(undirected))
	for id := range undirected {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	visited := make(map[core.ID]bool, len(nodes))
	var clusters [][]core.ID
	for _, start := range nodes {
		if visited[start] {
			continue
		}

		var component []core.ID
		queue := []core.ID{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for _, neighbor := range sortedIDs(undirected[current]) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		if len(component) >= minSize {
			sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
			clusters = append(clusters, component)
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

func sortedIDs(set map[core.ID]struct{}) []core.ID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]core.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
