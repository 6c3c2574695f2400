package nav

import (
	"reflect"
	"testing"

	"github.com/llmhomework/portal/core/user"
)

func menuPaths(items []MenuItem) []string {
	var paths []string
	for _, it := range items {
		paths = append(paths, it.Path)
		paths = append(paths, menuPaths(it.Children)...)
	}
	return paths
}

func findItem(items []MenuItem, path string) *MenuItem {
	for i := range items {
		if items[i].Path == path {
			return &items[i]
		}
	}
	return nil
}

func TestBuildMenu(t *testing.T) {
	forest := Routes()

	t.Run("student never sees the course subtree", func(t *testing.T) {
		menu := BuildMenu(forest, user.TypeStudent)
		if findItem(menu, "/course") != nil {
			t.Error("course should be absent for STUDENT")
		}
		if findItem(menu, "/helptopic") == nil {
			t.Error("helptopic should be present for STUDENT")
		}
		if findItem(menu, "/management") != nil {
			t.Error("management should be absent for STUDENT")
		}
	})

	t.Run("teacher sees course but not admin-only children", func(t *testing.T) {
		menu := BuildMenu(forest, user.TypeTeacher)
		course := findItem(menu, "/course")
		if course == nil {
			t.Fatal("course should be present for TEACHER")
		}
		if findItem(course.Children, "/course/create-or-edit") != nil {
			t.Error("course/create-or-edit should be absent for TEACHER")
		}
		if findItem(course.Children, "/course/list") == nil {
			t.Error("course/list should be present for TEACHER")
		}
	})

	t.Run("admin sees everything except routing artifacts", func(t *testing.T) {
		menu := BuildMenu(forest, user.TypeAdmin)
		mgmt := findItem(menu, "/management")
		if mgmt == nil {
			t.Fatal("management should be present for ADMIN")
		}
		if got := len(mgmt.Children); got != 2 {
			t.Errorf("management children = %d; want 2", got)
		}
		for _, p := range menuPaths(menu) {
			if p == "/*" || p == "" {
				t.Errorf("routing artifact leaked into menu: %q", p)
			}
		}
	})

	t.Run("sibling order equals declaration order", func(t *testing.T) {
		menu := BuildMenu(forest, user.TypeAdmin)
		want := []string{"/home", "/profile", "/course", "/question", "/experiment", "/request", "/helptopic", "/management"}
		var got []string
		for _, it := range menu {
			got = append(got, it.Path)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("top-level order = %v; want %v", got, want)
		}
	})
}

// Every projected entry must correspond to a visible node.
func TestBuildMenuOnlyVisibleNodes(t *testing.T) {
	forest := Routes()
	for _, role := range user.AllTypes {
		menu := BuildMenu(forest, role)
		for _, path := range menuPaths(menu) {
			m := Resolve(forest, path)
			for _, n := range m.Chain {
				if !Visible(n, role) {
					t.Errorf("role %s: menu contains %q but node %q is not visible", role, path, n.Segment)
				}
			}
		}
	}
}

func TestBuildMenuPure(t *testing.T) {
	forest := Routes()
	for _, role := range user.AllTypes {
		a := BuildMenu(forest, role)
		b := BuildMenu(forest, role)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("role %s: repeated projection differs", role)
		}
	}
}

func TestBuildMenuDropsEmptySubmenus(t *testing.T) {
	forest := []*Node{
		{Segment: "admin", Label: "Admin", Children: []*Node{
			{Segment: "", Redirect: "tools", Hidden: true},
			{Segment: "tools", Label: "Tools", Component: "admin/tools", Roles: []string{user.TypeAdmin}},
		}},
	}

	if menu := BuildMenu(forest, user.TypeStudent); len(menu) != 0 {
		t.Errorf("menu = %+v; want empty (all children filtered)", menu)
	}
	if menu := BuildMenu(forest, user.TypeAdmin); len(menu) != 1 {
		t.Errorf("menu = %+v; want the admin submenu", menu)
	}
}

func TestBuildMenuSkipsRedirectLeaves(t *testing.T) {
	forest := []*Node{
		{Segment: "alias", Label: "Alias", Redirect: "target", Children: []*Node{
			{Segment: "target", Component: "target", Hidden: true},
		}},
	}
	menu := BuildMenu(forest, user.TypeStudent)
	if len(menu) != 0 {
		t.Errorf("menu = %+v; want no entry for a redirect with no visible children", menu)
	}
}
