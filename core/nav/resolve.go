package nav

import "strings"

// DetailParam is the parameter name a detail-view node binds its absorbed
// value segment to.
const DetailParam = "id"

// Match is the result of resolving a URL path against the forest.
type Match struct {
	// Chain is the ordered chain of nodes from the top level down to the
	// deepest node matching a prefix of the input.
	Chain []*Node
	// Consumed is the number of input segments the chain accounts for.
	// Remaining segments belong to application-level dynamic content.
	Consumed int
	// Params holds ":param" bindings and detail-view values.
	Params map[string]string
}

// Active returns the deepest matched node, or nil for an empty match.
func (m Match) Active() *Node {
	if len(m.Chain) == 0 {
		return nil
	}
	return m.Chain[len(m.Chain)-1]
}

// SplitPath splits a URL path into its non-empty segments. Leading, trailing
// and doubled slashes are discarded.
func SplitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Resolve walks the forest along the path's segments.
//
// At each level a literal sibling match is preferred over a parameter match
// (ties among literals are a configuration defect rejected by Validate, not a
// runtime concern). A detail-view node absorbs the following segment as its
// bound value without descending into children. The catch-all is terminal and
// owns all remaining input.
func Resolve(forest []*Node, path string) Match {
	segs := SplitPath(path)
	m := Match{Params: make(map[string]string)}
	level := forest

	for m.Consumed < len(segs) {
		n := Find(level, segs[m.Consumed])
		if n == nil {
			break
		}
		m.Chain = append(m.Chain, n)

		if n.IsWildcard() {
			m.Consumed = len(segs)
			break
		}
		if n.IsParam() {
			m.Params[n.ParamName()] = segs[m.Consumed]
		}
		m.Consumed++

		if n.Detail && m.Consumed < len(segs) {
			m.Params[DetailParam] = segs[m.Consumed]
			m.Consumed++
			break
		}
		level = n.Children
	}
	return m
}

// RedirectTarget returns the re-targeted path when the fully matched node
// delegates navigation: either the node itself carries a redirect, or it owns
// a redirect placeholder child. The second return is false when the path is
// not subject to a redirect.
func RedirectTarget(forest []*Node, path string) (string, bool) {
	segs := SplitPath(path)
	m := Resolve(forest, path)
	if m.Consumed != len(segs) {
		return "", false
	}
	last := m.Active()
	if last == nil || last.IsWildcard() {
		return "", false
	}

	base := "/" + strings.Join(segs, "/")
	if last.Redirect != "" {
		return joinPath(base, last.Redirect), true
	}
	for _, c := range last.Children {
		if c.IsPlaceholder() && c.Redirect != "" {
			return joinPath(base, c.Redirect), true
		}
	}
	return "", false
}

func joinPath(base, seg string) string {
	return strings.TrimRight(base, "/") + "/" + seg
}
