package nav

import "github.com/llmhomework/portal/core/user"

// Routes returns the authenticated application's navigation forest.
//
// Role gating is declared on the nodes and evaluated per render against the
// current session's role; it is never baked in at construction time, so a
// login/logout without a full reload is picked up immediately.
func Routes() []*Node {
	staff := []string{user.TypeAdmin, user.TypeTeacher}
	admin := []string{user.TypeAdmin}

	return []*Node{
		{
			Segment:   "home",
			Label:     "Home",
			Icon:      "home",
			Component: "home",
		},
		{
			Segment: "profile",
			Label:   "Profile",
			Icon:    "user",
			Children: []*Node{
				{Segment: "", Redirect: "user-information", Hidden: true},
				{
					Segment:   "user-information",
					Label:     "User Information",
					Icon:      "profile",
					Component: "profile/user-information",
				},
				{
					Segment:   "change-password",
					Label:     "Change Password",
					Icon:      "security-scan",
					Component: "profile/change-password",
				},
			},
		},
		{
			Segment: "course",
			Label:   "Course",
			Icon:    "fund-view",
			Roles:   staff,
			Children: []*Node{
				{Segment: "", Redirect: "list", Hidden: true},
				{
					Segment:   "list",
					Label:     "List",
					Icon:      "bars",
					Component: "course/list",
				},
				{
					Segment:   "create-or-edit",
					Label:     "Create or Edit",
					Icon:      "edit",
					Component: "course/create-or-edit",
					Roles:     admin,
				},
			},
		},
		{
			Segment: "question",
			Label:   "Question",
			Icon:    "question",
			Roles:   staff,
			Children: []*Node{
				{Segment: "", Redirect: "search", Hidden: true},
				{
					Segment:   "search",
					Label:     "Search",
					Icon:      "search",
					Component: "question/search",
				},
				{
					Segment:   "list",
					Label:     "List",
					Icon:      "bars",
					Component: "question/list",
				},
				{
					Segment:   "view",
					Label:     "View",
					Icon:      "eye",
					Component: "question/view",
					Detail:    true,
				},
				{
					Segment:   "create-or-edit",
					Label:     "Create or Edit",
					Icon:      "edit",
					Component: "question/create-or-edit",
					Roles:     admin,
				},
			},
		},
		{
			Segment: "experiment",
			Label:   "Experiment",
			Icon:    "experiment",
			Roles:   staff,
			Children: []*Node{
				{Segment: "", Redirect: "list", Hidden: true},
				{
					Segment:   "list",
					Label:     "My Experiments",
					Icon:      "bars",
					Component: "experiment/list",
				},
				{
					Segment:   "view",
					Label:     "View",
					Icon:      "eye",
					Component: "experiment/view",
					Detail:    true,
				},
				{
					Segment:   "create",
					Label:     "Create",
					Icon:      "edit",
					Component: "experiment/create",
				},
				{
					Segment:   "create-with-llm",
					Label:     "Create with LLM (Beta)",
					Icon:      "edit",
					Component: "experiment/create-with-llm",
				},
			},
		},
		{
			Segment: "request",
			Label:   "Request",
			Icon:    "pull-request",
			Roles:   staff,
			Children: []*Node{
				{Segment: "", Redirect: "list", Hidden: true},
				{
					Segment:   "list",
					Label:     "My Requests",
					Icon:      "bars",
					Component: "request/list",
				},
				{
					Segment:   "create",
					Label:     "Create",
					Icon:      "edit",
					Component: "request/create",
				},
			},
		},
		{
			Segment: "helptopic",
			Label:   "Help Topic",
			Icon:    "tags",
			Children: []*Node{
				{Segment: "", Redirect: "list", Hidden: true},
				{
					Segment:   "list",
					Label:     "List",
					Icon:      "bars",
					Component: "helptopic/list",
				},
				{
					Segment:   "view",
					Label:     "View",
					Icon:      "eye",
					Component: "helptopic/view",
					Detail:    true,
				},
				{
					Segment:   "create",
					Label:     "Create",
					Icon:      "search",
					Component: "helptopic/create",
				},
				{
					Segment:   "create-with-llm",
					Label:     "Create with LLM (Beta)",
					Icon:      "edit",
					Component: "helptopic/create-with-llm",
				},
			},
		},
		{
			Segment: "management",
			Label:   "Management",
			Icon:    "setting",
			Roles:   admin,
			Children: []*Node{
				{Segment: "", Redirect: "users", Hidden: true},
				{
					Segment:   "users",
					Label:     "Users",
					Icon:      "team",
					Component: "management/users",
				},
				{
					Segment:   "requests",
					Label:     "Requests",
					Icon:      "pull-request",
					Component: "management/requests",
				},
			},
		},
		{
			Segment:   Wildcard,
			Label:     "404",
			Component: "not-found",
			Hidden:    true,
		},
	}
}

// OutsideRoutes returns the unauthenticated surface. The root placeholder's
// redirect target depends on whether a user is stored; the shell decides at
// dispatch time between "home" and "login".
func OutsideRoutes() []*Node {
	return []*Node{
		{Segment: "login", Label: "Login", Component: "login"},
		{Segment: "register", Label: "Register", Component: "register"},
		{Segment: "register-old", Label: "Register", Component: "register-old"},
	}
}
