package nav

// Visible reports whether the node is shown in navigation for the given role.
//
// Visibility is deterministic in (node, role) and only affects menu and
// breadcrumb rendering; an invisible node stays reachable by direct URL, and an
// invisible parent never hides its children from routing. Hidden redirect
// placeholders in particular must remain reachable so that visiting a parent
// path still redirects.
func Visible(n *Node, role string) bool {
	if n.Hidden {
		return false
	}
	if len(n.Roles) == 0 {
		return true
	}
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}
