package nav

// MenuItem is one rendered navigation entry.
type MenuItem struct {
	Label    string     `json:"label"`
	Path     string     `json:"path"`
	Icon     string     `json:"icon,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// BuildMenu projects the visible subset of the forest into an ordered menu,
// preserving declaration order and hierarchy.
//
// Redirect placeholders contribute no entry of their own; a parent whose
// children are all filtered out is dropped rather than rendered as an empty
// submenu. Pure in (forest, role): repeated calls yield structurally equal
// output.
func BuildMenu(forest []*Node, role string) []MenuItem {
	return buildMenu(forest, role, "")
}

func buildMenu(nodes []*Node, role, base string) []MenuItem {
	var items []MenuItem
	for _, n := range nodes {
		if !Visible(n, role) {
			continue
		}
		// placeholders, parameters and the catch-all are routing artifacts
		if n.IsPlaceholder() || n.IsParam() || n.IsWildcard() {
			continue
		}
		path := base + "/" + n.Segment

		if len(n.Children) > 0 {
			children := buildMenu(n.Children, role, path)
			if len(children) == 0 {
				continue
			}
			items = append(items, MenuItem{Label: n.Label, Path: path, Icon: n.Icon, Children: children})
			continue
		}
		if n.Redirect != "" {
			continue
		}
		items = append(items, MenuItem{Label: n.Label, Path: path, Icon: n.Icon})
	}
	return items
}
