// Package session holds the portal's per-session client state: the stored
// credentials and the UI settings reducer.
package session

import (
	"encoding/json"

	"github.com/volatiletech/null/v8"

	"github.com/llmhomework/portal/core/nav"
)

// Menu layout modes.
const (
	MenuModeInline     = "inline"
	MenuModeHorizontal = "horizontal"
	MenuModeMixin      = "mixin"
)

// CollapseWidth is the viewport width below which the sidebar starts collapsed.
const CollapseWidth = 768

// Settings is the UI settings record. It is replaced wholesale by Reduce and
// destroyed on full reload.
type Settings struct {
	Theme               string `json:"theme"`
	ThemeColor          string `json:"themeColor"`
	MenuMode            string `json:"menuMode"`
	FixHeader           bool   `json:"fixHeader"`
	SideBarCollapsed    bool   `json:"sideBarCollapsed"`
	SideBarHidden       bool   `json:"sideBarHidden"`
	MixinMenuActivePath string `json:"mixinMenuActivePath"`
}

// DefaultSettings derives the initial record from the viewport width and the
// initial URL path.
func DefaultSettings(viewportWidth int, initialPath string) Settings {
	var activePath string
	if segs := nav.SplitPath(initialPath); len(segs) > 0 {
		activePath = segs[0]
	}
	return Settings{
		Theme:               "light",
		ThemeColor:          "#1890ff",
		MenuMode:            MenuModeInline,
		FixHeader:           true,
		SideBarCollapsed:    viewportWidth < CollapseWidth,
		SideBarHidden:       false,
		MixinMenuActivePath: activePath,
	}
}

// Action types.
const (
	ActionSetTheme               = "setTheme"
	ActionSetThemeColor          = "setThemeColor"
	ActionSetMenuMode            = "setMenuMode"
	ActionSetFixHeader           = "setFixHeader"
	ActionSetSideBarCollapsed    = "setSideBarCollapsed"
	ActionSetSideBarHidden       = "setSideBarHidden"
	ActionSetMixinMenuActivePath = "setMixinMenuActivePath"
)

// Action is one settings transition. Data may be absent; setSideBarCollapsed
// treats an absent payload as a toggle.
type Action struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Reduce maps the current record and an action to the next record.
// Unknown actions and malformed payloads leave the record unchanged; no
// transition has side effects.
func Reduce(s Settings, a Action) Settings {
	switch a.Type {
	case ActionSetTheme:
		if v := strPayload(a); v.Valid {
			s.Theme = v.String
		}
	case ActionSetThemeColor:
		if v := strPayload(a); v.Valid {
			s.ThemeColor = v.String
		}
	case ActionSetMenuMode:
		if v := strPayload(a); v.Valid {
			s.MenuMode = v.String
		}
	case ActionSetFixHeader:
		if v := boolPayload(a); v.Valid {
			s.FixHeader = v.Bool
		}
	case ActionSetSideBarCollapsed:
		if v := boolPayload(a); v.Valid {
			s.SideBarCollapsed = v.Bool
		} else {
			s.SideBarCollapsed = !s.SideBarCollapsed
		}
	case ActionSetSideBarHidden:
		if v := boolPayload(a); v.Valid {
			s.SideBarHidden = v.Bool
		}
	case ActionSetMixinMenuActivePath:
		if v := strPayload(a); v.Valid {
			s.MixinMenuActivePath = v.String
		}
	}
	return s
}

func boolPayload(a Action) null.Bool {
	var v null.Bool
	if len(a.Data) == 0 {
		return v
	}
	if err := json.Unmarshal(a.Data, &v); err != nil {
		return null.Bool{}
	}
	return v
}

func strPayload(a Action) null.String {
	var v null.String
	if len(a.Data) == 0 {
		return v
	}
	if err := json.Unmarshal(a.Data, &v); err != nil {
		return null.String{}
	}
	return v
}
