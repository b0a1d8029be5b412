package graph

// Unreachable marks vertices with no path from the source
const Unreachable = -1

// HopDistances runs breadth-first search from src over an adjacency list
// Returns per-vertex hop count, 0 at src, Unreachable for disconnected vertices
// An out-of-range src yields all Unreachable
func HopDistances(adj [][]int, src int) []int {
	dist := make([]int, len(adj))
	for i := range dist {
		dist[i] = Unreachable
	}
	if src < 0 || src >= len(adj) {
		return dist
	}

	dist[src] = 0
	queue := make([]int, 0, len(adj))
	queue = append(queue, src)

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, nb := range adj[cur] {
			if nb < 0 || nb >= len(adj) || dist[nb] != Unreachable {
				continue
			}
			dist[nb] = dist[cur] + 1
			queue = append(queue, nb)
		}
	}

	return dist
}

// Components labels connected components, returns per-vertex label and component count
func Components(adj [][]int) ([]int, int) {
	label := make([]int, len(adj))
	for i := range label {
		label[i] = -1
	}

	count := 0
	queue := make([]int, 0, 64)
	for i := range adj {
		if label[i] != -1 {
			continue
		}
		queue = queue[:0]
		queue = append(queue, i)
		label[i] = count

		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			for _, nb := range adj[cur] {
				if nb < 0 || nb >= len(adj) || label[nb] != -1 {
					continue
				}
				label[nb] = count
				queue = append(queue, nb)
			}
		}
		count++
	}

	return label, count
}
