package guard

import "strings"

// Route is one entry of the static route table. Children inherit the flags of
// their parent when the table is built.
type Route struct {
	Path                 string
	Name                 string
	Redirect             string
	RequiresAuth         bool
	RequiresElevatedRole bool
	Children             []Route
}

// Navigation is the record the guard evaluates for one navigation attempt.
type Navigation struct {
	From                 string
	To                   string
	Name                 string
	Params               map[string]string
	Matched              bool
	RequiresAuth         bool
	RequiresElevatedRole bool
}

// DefaultRoutes is the dashboard's route configuration.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/login", Name: "Login"},
		{
			Path:         "/",
			RequiresAuth: true,
			Children: []Route{
				{Path: "", Redirect: "/activities"},
				{Path: "activities", Name: "Activities"},
				{Path: "add-activity", Name: "AddActivity"},
				{Path: "import-activity", Name: "ImportActivity"},
				{Path: "my-projects", Name: "MyProjects"},
				{Path: "my-stats", Name: "MyStats"},
				{Path: "request-hours", Name: "RequestHours"},
				{Path: "admin-review", Name: "AdminReview", RequiresElevatedRole: true},
				{Path: "system-monitor", Name: "SystemMonitor", RequiresElevatedRole: true},
				{Path: "activity/:id", Name: "ActivityDetail"},
			},
		},
	}
}

type entry struct {
	segments []string
	route    Route
}

// Table resolves paths against a flattened route configuration.
type Table struct {
	entries []entry
}

func NewTable(routes []Route) *Table {
	t := &Table{}
	t.add("", routes, false, false)
	return t
}

func (t *Table) add(prefix string, routes []Route, auth, elevated bool) {
	for _, r := range routes {
		full := joinPath(prefix, r.Path)
		r.RequiresAuth = r.RequiresAuth || auth
		r.RequiresElevatedRole = r.RequiresElevatedRole || elevated
		if len(r.Children) > 0 {
			t.add(full, r.Children, r.RequiresAuth, r.RequiresElevatedRole)
			continue
		}
		r.Path = full
		t.entries = append(t.entries, entry{segments: split(full), route: r})
	}
}

// Resolve builds the navigation record for a move from one path to another,
// applying static redirects first. Unknown paths resolve to an unmatched
// record with no requirements.
func (t *Table) Resolve(from, to string) Navigation {
	to = cleanPath(to)
	for hops := 0; hops < len(t.entries)+1; hops++ {
		r, params, ok := t.match(to)
		if !ok {
			return Navigation{From: from, To: to}
		}
		if r.Redirect != "" && r.Redirect != to {
			to = cleanPath(r.Redirect)
			continue
		}
		return Navigation{
			From:                 from,
			To:                   to,
			Name:                 r.Name,
			Params:               params,
			Matched:              true,
			RequiresAuth:         r.RequiresAuth,
			RequiresElevatedRole: r.RequiresElevatedRole,
		}
	}
	return Navigation{From: from, To: to}
}

// Paths lists the concrete route paths in table order.
func (t *Table) Paths() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.route.Redirect == "" {
			out = append(out, e.route.Path)
		}
	}
	return out
}

func (t *Table) match(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, e := range t.entries {
		if len(e.segments) != len(segs) {
			continue
		}
		var params map[string]string
		ok := true
		for i, s := range e.segments {
			if strings.HasPrefix(s, ":") {
				if params == nil {
					params = map[string]string{}
				}
				params[s[1:]] = segs[i]
				continue
			}
			if s != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return e.route, params, true
		}
	}
	return Route{}, nil, false
}

func joinPath(prefix, p string) string {
	if strings.HasPrefix(p, "/") {
		return cleanPath(p)
	}
	return cleanPath(strings.TrimSuffix(prefix, "/") + "/" + p)
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
