package graph

// dedupeBy removes elements whose key was already seen, preserving the order
// of first occurrence.
func dedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupeNodes removes duplicate node ids, first occurrence wins.
func DedupeNodes(nodes []Node) []Node {
	return dedupeBy(nodes, func(n Node) string { return n.ID })
}

// DedupeEdges removes duplicate edge ids, first occurrence wins.
func DedupeEdges(edges []Edge) []Edge {
	return dedupeBy(edges, func(e Edge) string { return e.ID })
}
