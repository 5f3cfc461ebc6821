// Package render draws workflows as Mermaid flowcharts.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Direction is the flowchart layout direction.
type Direction string

const (
	// TopDown lays the chart out top to bottom.
	TopDown Direction = "TD"
	// LeftRight lays the chart out left to right.
	LeftRight Direction = "LR"
)

// ParseDirection accepts TD or LR in any case. Empty means TD.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case "":
		return TopDown, nil
	case TopDown, LeftRight:
		return d, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be TD or LR", s)
	}
}

var (
	unsafeID    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	labelEscape = strings.NewReplacer(`"`, "#quot;", "\r\n", " ", "\n", " ", "\r", " ", "\t", " ")
)

// nodeID restricts an id to characters Mermaid accepts unquoted.
func nodeID(id string) string {
	safe := unsafeID.ReplaceAllString(id, "_")
	if safe == "" {
		return "_"
	}
	return safe
}

// nodeIDs maps raw task ids to distinct node ids. The first raw id to
// claim a sanitized form keeps it; later collisions get _2, _3, ...
type nodeIDs struct {
	byRaw map[string]string
	taken map[string]bool
}

func newNodeIDs(n int) *nodeIDs {
	return &nodeIDs{byRaw: make(map[string]string, n), taken: make(map[string]bool, n)}
}

func (m *nodeIDs) get(raw string) string {
	if id, ok := m.byRaw[raw]; ok {
		return id
	}
	base := nodeID(raw)
	id := base
	for n := 2; m.taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	m.byRaw[raw] = id
	m.taken[id] = true
	return id
}

func label(t models.Task) string {
	text := t.Title
	if strings.TrimSpace(text) == "" {
		text = t.ID
	}
	return labelEscape.Replace(text)
}

// Mermaid renders wf. Output is byte-identical for identical input:
// nodes follow task order (first occurrence of an id wins), distinct ids
// always get distinct nodes, edges come
// only from depends_on and are deduplicated and sorted.
func Mermaid(wf models.Workflow, dir Direction) string {
	if dir != LeftRight {
		dir = TopDown
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", dir)

	ids := newNodeIDs(len(wf.Tasks))
	seen := make(map[string]bool, len(wf.Tasks))
	var agents, humans []string
	for _, t := range wf.Tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		id := ids.get(t.ID)

		if t.Actor == models.ActorHuman {
			fmt.Fprintf(&b, "  %s([\"%s\"])\n", id, label(t))
			humans = append(humans, id)
		} else {
			fmt.Fprintf(&b, "  %s[\"%s\"]\n", id, label(t))
			agents = append(agents, id)
		}
	}

	type edge struct{ from, to string }
	edgeSeen := make(map[edge]bool)
	var edges []edge
	for _, t := range wf.Tasks {
		for _, d := range t.DependsOn {
			e := edge{from: ids.get(d), to: ids.get(t.ID)}
			if edgeSeen[e] {
				continue
			}
			edgeSeen[e] = true
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	for _, e := range edges {
		fmt.Fprintf(&b, "  %s --> %s\n", e.from, e.to)
	}

	b.WriteString("  classDef agent fill:#e3f2fd,stroke:#1e88e5,color:#0d47a1\n")
	b.WriteString("  classDef human fill:#fff3e0,stroke:#fb8c00,color:#e65100\n")
	if len(agents) > 0 {
		fmt.Fprintf(&b, "  class %s agent\n", strings.Join(agents, ","))
	}
	if len(humans) > 0 {
		fmt.Fprintf(&b, "  class %s human\n", strings.Join(humans, ","))
	}

	return b.String()
}
