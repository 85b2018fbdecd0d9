package graph

import "github.com/zboralski/lattice"

// Export converts every node-to-node edge under relation r into a
// lattice.Graph suitable for visualization or further external
// processing. Each node becomes a lattice node; each edge becomes a
// lattice.Edge with Caller as the edge source and Callee as the edge
// target. Duplicate edges are removed.
func (g *Graph) Export(r Relation) *lattice.Graph {
	lg := &lattice.Graph{}
	for _, n := range g.nodes {
		lg.Nodes = append(lg.Nodes, n.Name)
		for target := range n.edges[r] {
			lg.Edges = append(lg.Edges, lattice.Edge{
				Caller: n.Name,
				Callee: target.Name,
			})
		}
	}
	lg.Dedup()
	return lg
}
