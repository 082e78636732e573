package middleware

import "strings"

// RouteClass is the edge pipeline's classification of a request path.
type RouteClass int

const (
	// RouteSkip bypasses the entire pipeline: no span, no metrics, no
	// auth. Reserved for static assets and probe endpoints.
	RouteSkip RouteClass = iota

	// RoutePublic is a page anyone may load.
	RoutePublic

	// RoutePublicAPI is an API endpoint anyone may call.
	RoutePublicAPI

	// RouteProtected requires a verified session.
	RouteProtected

	// RouteUnprotected is any path not in the lists above. It needs no
	// session but is still traced and measured.
	RouteUnprotected
)

func (c RouteClass) String() string {
	switch c {
	case RouteSkip:
		return "skip"
	case RoutePublic:
		return "public"
	case RoutePublicAPI:
		return "public_api"
	case RouteProtected:
		return "protected"
	default:
		return "unprotected"
	}
}

// Route lists are static compiled-in configuration, not runtime-mutable.
var (
	// skipPrefixes match by plain prefix. Probes and metrics scrapes are
	// high-volume noise; tracing them drowns out real traffic.
	skipPrefixes = []string{
		"/static/",
		"/assets/",
		"/favicon.ico",
		"/robots.txt",
		"/livez",
		"/readyz",
		"/startupz",
		"/metrics",
	}

	publicRoutes = []string{
		"/",
		"/login",
		"/logout",
		"/kontakt",
		"/impressum",
		"/datenschutz",
	}

	publicAPIRoutes = []string{
		"/api/health",
		"/api/version",
		"/api/auth/login",
		"/api/auth/logout",
	}

	protectedRoutes = []string{
		"/dashboard",
		"/clients",
		"/appointments",
		"/documents",
		"/settings",
		"/api/v1",
	}
)

// Classify maps a request path to its route class. Deterministic and
// side-effect free; public classification takes precedence over protected.
func Classify(path string) RouteClass {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteSkip
		}
	}

	if matchesAny(path, publicRoutes) {
		return RoutePublic
	}
	if matchesAny(path, publicAPIRoutes) {
		return RoutePublicAPI
	}
	if matchesAny(path, protectedRoutes) {
		return RouteProtected
	}

	return RouteUnprotected
}

// IsProtectedRoute reports whether a path requires a verified session.
func IsProtectedRoute(path string) bool {
	return Classify(path) == RouteProtected
}

func matchesAny(path string, entries []string) bool {
	for _, entry := range entries {
		if matchesRoute(path, entry) {
			return true
		}
	}
	return false
}

// matchesRoute is an exact match or a path-segment prefix match
// (entry + "/"). The segment boundary keeps /loginx from matching /login.
// Root matches only exactly, otherwise every path would be public.
func matchesRoute(path, entry string) bool {
	if entry == "/" {
		return path == "/"
	}
	return path == entry || strings.HasPrefix(path, entry+"/")
}
