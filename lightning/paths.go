package lightning

import (
	"math"

	"github.com/lixenwraith/synapse/vmath"
)

// Path is one branch of a strike: the node sequence from the source, hop depth and remaining energy
type Path struct {
	Nodes  []int
	Depth  int
	Energy float64
}

type frontier struct {
	node   int
	nodes  []int
	depth  int
	energy float64
}

// FindPaths explores the adjacency breadth-first from source and returns the strike's branches
// Every dequeued frontier becomes a Path; the source path counts toward the budget like any other
// At a node with energy above the floor, floor(unvisited·ForkingProb) forks plus one continuation are taken from
// the shuffled unvisited neighbors, capped by the remaining budget and scaled by energy
// Child i gets energy parent·DecayFactor^(1 + i·0.5)
// len(result) <= MaxForks always holds
func (c *Controller) FindPaths(source int, adj [][]int) []Path {
	if source < 0 || source >= len(adj) || c.cfg.MaxForks <= 0 {
		return nil
	}

	remaining := c.cfg.MaxForks - 1
	visited := make([]bool, len(adj))
	visited[source] = true

	queue := []frontier{{node: source, nodes: []int{source}, energy: 1}}
	paths := make([]Path, 0, c.cfg.MaxForks)
	candidates := make([]int, 0, 8)

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		paths = append(paths, Path{Nodes: cur.nodes, Depth: cur.depth, Energy: cur.energy})

		if cur.energy < c.cfg.EnergyFloor || remaining <= 0 {
			continue
		}

		candidates = candidates[:0]
		for _, nb := range adj[cur.node] {
			if nb >= 0 && nb < len(adj) && !visited[nb] {
				candidates = append(candidates, nb)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		forks := int(math.Floor(float64(len(candidates)) * c.cfg.ForkingProb))
		forks = min(forks, int(math.Floor(float64(remaining)*cur.energy)))
		take := min(forks+1, len(candidates), remaining)

		vmath.Shuffle(c.rng, candidates)
		for i := 0; i < take; i++ {
			next := candidates[i]
			visited[next] = true

			nodes := make([]int, len(cur.nodes)+1)
			copy(nodes, cur.nodes)
			nodes[len(cur.nodes)] = next

			queue = append(queue, frontier{
				node:   next,
				nodes:  nodes,
				depth:  cur.depth + 1,
				energy: cur.energy * math.Pow(c.cfg.DecayFactor, 1+float64(i)*0.5),
			})
		}
		remaining -= take
	}

	return paths
}
