package graph

// Wire types mirror the JSON shape consumed by the presentation layer. The
// internal model stays flat; conversion happens at the boundary.

type WirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WireNodeData struct {
	Label    string `json:"label"`
	Type     Kind   `json:"type"`
	FilePath string `json:"filePath,omitempty"`
}

type WireNode struct {
	ID       string        `json:"id"`
	Data     WireNodeData  `json:"data"`
	Position *WirePosition `json:"position,omitempty"`
}

type WireEdge struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Type      Relation `json:"type"`
	Label     string   `json:"label,omitempty"`
	RawTarget string   `json:"rawTarget,omitempty"`
}

type WireGraph struct {
	Nodes []WireNode `json:"nodes"`
	Edges []WireEdge `json:"edges"`
}

type WireError struct {
	Error string `json:"error"`
}

// ToWire converts a graph to its wire representation. Layout coordinates are
// carried through only when the node has been positioned.
func (g *Graph) ToWire() WireGraph {
	w := WireGraph{
		Nodes: make([]WireNode, 0, len(g.Nodes)),
		Edges: make([]WireEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		wn := WireNode{
			ID: n.ID,
			Data: WireNodeData{
				Label:    n.Label,
				Type:     n.Kind,
				FilePath: n.DefiningFile,
			},
		}
		if n.X != 0 || n.Y != 0 {
			wn.Position = &WirePosition{X: n.X, Y: n.Y}
		}
		w.Nodes = append(w.Nodes, wn)
	}
	for _, e := range g.Edges {
		w.Edges = append(w.Edges, WireEdge{
			ID:        e.ID,
			Source:    e.Source,
			Target:    e.Target,
			Type:      e.Kind,
			Label:     string(e.Kind),
			RawTarget: e.RawTarget,
		})
	}
	return w
}
