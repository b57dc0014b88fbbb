package routes

import "sync"

// applicationRoutes are the named routes of the application.
func applicationRoutes() map[string]Entry {
	return map[string]Entry{
		// Auth
		"auth.login":    Fixed("/auth/login"),
		"auth.register": Fixed("/auth/register"),
		"auth.logout":   Fixed("/auth/logout"),
		"auth.google":   Fixed("/auth/google"),

		// Projects
		"project.index":           Fixed("/projects"),
		"project.create":          Fixed("/projects/create"),
		"project.store":           Fixed("/api/v1/projects"),
		"project.detail":          Pattern("/projects/{id}"),
		"project.edit":            Pattern("/projects/{id}/edit"),
		"project.members":         Pattern("/projects/{id}/members"),
		"projects.destroy":        Pattern("/api/v1/projects/{id}"),
		"projects.edit":           Pattern("/projects/{id}/edit"),
		"projects.members.invite": Pattern("/projects/{id}/members/invite"),

		// Knowledge
		"knowledge.index":   Fixed("/knowledge"),
		"knowledge.create":  Fixed("/knowledge/create"),
		"knowledge.store":   Fixed("/api/v1/knowledge"),
		"knowledge.detail":  Pattern("/knowledge/{id}"),
		"knowledge.show":    Pattern("/knowledge/{id}"),
		"knowledge.edit":    Pattern("/knowledge/{id}/edit"),
		"knowledge.search":  Fixed("/knowledge/search"),
		"knowledge.destroy": Pattern("/api/v1/knowledge/{id}"),
		"knowledge.query":   Pattern("/api/v1/knowledge/{id}/search"),

		// API
		"api.auth.me":     Fixed("/api/v1/auth/me"),
		"api.auth.logout": Fixed("/api/v1/auth/logout"),
	}
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the application's route table.
func Default() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable(applicationRoutes())
	})
	return defaultTable
}

// Route resolves name against the default table.
//
//	routes.Route("project.detail", routes.P("id", 7)) // "/projects/7"
func Route(name string, params any) string {
	return Default().URL(name, params)
}
