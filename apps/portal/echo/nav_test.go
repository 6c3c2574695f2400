package echoapi

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmhomework/portal/core/nav"
	"github.com/llmhomework/portal/core/user"
)

func menuLabels(items []nav.MenuItem) []string {
	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	return labels
}

func TestNavMenuPerRole(t *testing.T) {
	tests := []struct {
		role        string
		wantTop     []string
		wantMissing []string
	}{
		{
			role:        user.TypeAdmin,
			wantTop:     []string{"Home", "Profile", "Course", "Question", "Experiment", "Request", "Help Topic", "Management"},
			wantMissing: nil,
		},
		{
			role:        user.TypeTeacher,
			wantTop:     []string{"Home", "Profile", "Course", "Question", "Experiment", "Request", "Help Topic"},
			wantMissing: []string{"Management"},
		},
		{
			role:        user.TypeStudent,
			wantTop:     []string{"Home", "Profile", "Help Topic"},
			wantMissing: []string{"Course", "Question", "Experiment", "Request", "Management"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			u := newUpstream(t)
			server, store := setup(t, u)
			loginAs(t, store, tt.role)

			req, rec := newRequest(http.MethodGet, "/nav/menu")
			server.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
			}
			var items []nav.MenuItem
			decodeBody(t, rec, &items)

			labels := menuLabels(items)
			assert.Equal(t, tt.wantTop, labels)
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, labels, missing)
			}
		})
	}
}

// A role change in the stored profile is reflected on the next projection
// without restarting anything.
func TestNavMenuFollowsRoleChange(t *testing.T) {
	u := newUpstream(t)
	server, store := setup(t, u)

	loginAs(t, store, user.TypeStudent)
	req, rec := newRequest(http.MethodGet, "/nav/menu")
	server.ServeHTTP(rec, req)
	var items []nav.MenuItem
	decodeBody(t, rec, &items)
	assert.NotContains(t, menuLabels(items), "Management")

	loginAs(t, store, user.TypeAdmin)
	req, rec = newRequest(http.MethodGet, "/nav/menu")
	server.ServeHTTP(rec, req)
	decodeBody(t, rec, &items)
	assert.Contains(t, menuLabels(items), "Management")
}

func TestNavBreadcrumbs(t *testing.T) {
	u := newUpstream(t)
	server, store := setup(t, u)
	loginAs(t, store, user.TypeAdmin)

	tests := []struct {
		name string
		path string
		want []nav.Crumb
	}{
		{
			name: "list view",
			path: "/course/list",
			want: []nav.Crumb{
				{Label: "LLM Homework", Link: "/home"},
				{Label: "List", Link: "/course/list"},
			},
		},
		{
			name: "detail view absorbs the record id",
			path: "/question/view/42",
			want: []nav.Crumb{
				{Label: "LLM Homework", Link: "/home"},
				{Label: "View", Link: "/question/view"},
			},
		},
		{
			name: "home only",
			path: "/home",
			want: []nav.Crumb{
				{Label: "LLM Homework", Link: "/home"},
				{Label: "Home", Link: "/home"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/nav/breadcrumbs?path="+url.QueryEscape(tt.path))
			server.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
			}
			var crumbs []nav.Crumb
			decodeBody(t, rec, &crumbs)
			assert.Equal(t, tt.want, crumbs)
		})
	}
}

func TestNavBreadcrumbsRequiresPath(t *testing.T) {
	u := newUpstream(t)
	server, store := setup(t, u)
	loginAs(t, store, user.TypeAdmin)

	req, rec := newRequest(http.MethodGet, "/nav/breadcrumbs")
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestNavResolve(t *testing.T) {
	u := newUpstream(t)
	server, store := setup(t, u)
	loginAs(t, store, user.TypeAdmin)

	tests := []struct {
		name string
		path string
		want Resolution
	}{
		{
			name: "detail view",
			path: "/question/view/42",
			want: Resolution{
				Segments:  []string{"question", "view"},
				Consumed:  3,
				Params:    map[string]string{"id": "42"},
				Component: "question/view",
			},
		},
		{
			name: "redirecting parent",
			path: "/course",
			want: Resolution{
				Segments: []string{"course"},
				Consumed: 1,
				Redirect: "/course/list",
			},
		},
		{
			name: "catch-all",
			path: "/definitely/not/here",
			want: Resolution{
				Segments:  []string{"*"},
				Consumed:  3,
				Component: "not-found",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/nav/resolve?path="+url.QueryEscape(tt.path))
			server.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
			}
			var got Resolution
			decodeBody(t, rec, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}
