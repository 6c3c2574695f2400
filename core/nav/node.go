// Package nav models the portal's navigable surface as a static forest of
// route nodes and derives the side menu, URL dispatch and breadcrumb trail
// from it.
package nav

import (
	"strings"

	"github.com/pkg/errors"
)

// Wildcard is the reserved catch-all segment. It must be the last sibling
// and terminates path resolution.
const Wildcard = "*"

// Node is one entry in the navigation forest: a path segment mapping to a
// view, a redirect or a submenu.
type Node struct {
	// Segment is the URL path segment. It may be empty (redirect placeholder),
	// ":<name>" (parameter, matches any literal) or "*" (catch-all).
	Segment string
	// Label is the title shown in menu and breadcrumb; empty for structural nodes.
	Label string
	// Icon is an opaque presentational token.
	Icon string
	// Component references the view rendered when this node is the active leaf.
	Component string
	// Redirect re-targets navigation to <thisPath>/<Redirect>.
	// A redirect node renders no view of its own.
	Redirect string
	// Hidden excludes the node from menu and breadcrumb rendering.
	// Hidden nodes remain reachable by direct URL.
	Hidden bool
	// Roles gates visibility; empty means all authenticated roles.
	Roles []string
	// Detail marks a detail-view node that absorbs the following path segment
	// as its bound record ID (the "view/:id" convention).
	Detail bool
	// Children, in declaration order. Order determines menu and resolution order.
	Children []*Node
}

func (n *Node) IsWildcard() bool    { return n.Segment == Wildcard }
func (n *Node) IsParam() bool       { return strings.HasPrefix(n.Segment, ":") }
func (n *Node) IsPlaceholder() bool { return n.Segment == "" }

// ParamName returns the parameter name of a ":<name>" segment.
func (n *Node) ParamName() string {
	return strings.TrimPrefix(n.Segment, ":")
}

// Structural reports whether the node is a redirect-only structural parent:
// it renders no view of its own and delegates navigation via a redirect, either
// its own or a placeholder child's. Structural nodes contribute no breadcrumb
// entry; their segment still participates in link construction.
func (n *Node) Structural() bool {
	if n.Component != "" {
		return false
	}
	if n.Redirect != "" {
		return true
	}
	for _, c := range n.Children {
		if c.IsPlaceholder() && c.Redirect != "" {
			return true
		}
	}
	return false
}

// Find returns the node among siblings matching the given concrete segment.
// A literal match wins over a ":param" match, which wins over "*".
// Returns nil when nothing matches.
func Find(siblings []*Node, segment string) *Node {
	var param, wild *Node
	for _, n := range siblings {
		switch {
		case n.Segment == segment:
			return n
		case n.IsParam() && param == nil:
			param = n
		case n.IsWildcard() && wild == nil:
			wild = n
		}
	}
	if param != nil {
		return param
	}
	return wild
}

// Validate rejects malformed forests at startup: duplicate literal siblings,
// more than one parameter sibling, a wildcard that is not the last sibling, or
// a redirect node that renders a view / targets a segment that does not exist.
func Validate(forest []*Node) error {
	return validateLevel(forest, "")
}

func validateLevel(siblings []*Node, path string) error {
	seen := make(map[string]bool, len(siblings))
	var params int
	for i, n := range siblings {
		at := path + "/" + n.Segment

		if n.IsWildcard() {
			if i != len(siblings)-1 {
				return errors.Errorf("nav: wildcard must be the last sibling under %q", path)
			}
			continue
		}
		if n.IsParam() {
			if params++; params > 1 {
				return errors.Errorf("nav: ambiguous parameter siblings under %q", path)
			}
		} else {
			if seen[n.Segment] {
				return errors.Errorf("nav: duplicate sibling segment %q", at)
			}
			seen[n.Segment] = true
		}

		if n.Redirect != "" {
			if n.Component != "" {
				return errors.Errorf("nav: redirect node %q renders a view", at)
			}
			targets := n.Children
			if n.IsPlaceholder() {
				targets = siblings // placeholder redirects to one of its own siblings
			}
			if t := Find(targets, n.Redirect); t == nil {
				return errors.Errorf("nav: redirect target %q/%s not found", at, n.Redirect)
			}
		}

		if err := validateLevel(n.Children, at); err != nil {
			return err
		}
	}
	return nil
}
