package nav

// Crumb is one clickable breadcrumb entry.
type Crumb struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

// Breadcrumbs reconstructs the breadcrumb trail for the given path.
//
// The trail always opens with {rootLabel, "/home"}. Each node of the resolved
// chain then contributes one entry linking to the concrete path up to and
// including it, except: hidden nodes, nodes with an empty label, and
// structural redirect-only parents, whose segments still participate in the
// links of their descendants. A detail-view node's bound value is absorbed
// into the node's entry rather than emitted as its own. At most one entry is
// kept per distinct node, compared by identity so that unrelated nodes sharing
// a label are not falsely collapsed. Pure in (forest, path, rootLabel).
func Breadcrumbs(forest []*Node, path, rootLabel string) []Crumb {
	crumbs := []Crumb{{Label: rootLabel, Link: "/home"}}

	m := Resolve(forest, path)
	seen := make(map[*Node]bool, len(m.Chain))
	var link string

	for _, n := range m.Chain {
		seg := n.Segment
		if n.IsParam() {
			seg = m.Params[n.ParamName()]
		}
		if seg != "" && !n.IsWildcard() {
			link += "/" + seg
		}

		if seen[n] {
			continue
		}
		seen[n] = true

		if n.Hidden || n.Label == "" || n.Structural() {
			continue
		}
		crumbs = append(crumbs, Crumb{Label: n.Label, Link: link})
	}
	return crumbs
}
