package authsdk

// Paths names the endpoint path of every operation. Empty fields fall back
// to DefaultPaths.
type Paths struct {
	Register    string
	Login       string
	Logout      string
	Refresh     string
	SetRoles    string
	Blacklist   string
	Unblacklist string
}

// DefaultPaths returns the paths the auth service mounts its handlers on.
func DefaultPaths() Paths {
	return Paths{
		Register:    "/register",
		Login:       "/login",
		Logout:      "/logout",
		Refresh:     "/refresh",
		SetRoles:    "/set-roles",
		Blacklist:   "/blacklist",
		Unblacklist: "/unblacklist",
	}
}

// withDefaults fills empty fields from DefaultPaths.
func (p Paths) withDefaults() Paths {
	d := DefaultPaths()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	return Paths{
		Register:    pick(p.Register, d.Register),
		Login:       pick(p.Login, d.Login),
		Logout:      pick(p.Logout, d.Logout),
		Refresh:     pick(p.Refresh, d.Refresh),
		SetRoles:    pick(p.SetRoles, d.SetRoles),
		Blacklist:   pick(p.Blacklist, d.Blacklist),
		Unblacklist: pick(p.Unblacklist, d.Unblacklist),
	}
}

// PathOption overrides the endpoint path of a single call.
type PathOption func(*string)

// AtPath sends the call to path instead of the configured one.
func AtPath(path string) PathOption {
	return func(p *string) {
		if path != "" {
			*p = path
		}
	}
}

func resolvePath(configured string, opts []PathOption) string {
	path := configured
	for _, opt := range opts {
		opt(&path)
	}
	return path
}
