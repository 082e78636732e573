package middleware

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want RouteClass
	}{
		{"root is public", "/", RoutePublic},
		{"login page", "/login", RoutePublic},
		{"contact page", "/kontakt", RoutePublic},
		{"imprint page", "/impressum", RoutePublic},
		{"public api health", "/api/health", RoutePublicAPI},
		{"public api login", "/api/auth/login", RoutePublicAPI},
		{"dashboard", "/dashboard", RouteProtected},
		{"dashboard subpage", "/dashboard/reports", RouteProtected},
		{"clients", "/clients", RouteProtected},
		{"client detail", "/clients/42", RouteProtected},
		{"versioned api", "/api/v1", RouteProtected},
		{"versioned api endpoint", "/api/v1/documents", RouteProtected},
		{"static asset", "/static/app.css", RouteSkip},
		{"assets", "/assets/logo.svg", RouteSkip},
		{"favicon", "/favicon.ico", RouteSkip},
		{"liveness probe", "/livez", RouteSkip},
		{"metrics scrape", "/metrics", RouteSkip},
		{"unknown page", "/pricing", RouteUnprotected},
		{"unknown api", "/api/v2/things", RouteUnprotected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassifySegmentBoundary(t *testing.T) {
	// A prefix match must stop at a path segment boundary.
	if got := Classify("/loginx"); got != RouteUnprotected {
		t.Errorf("Classify(/loginx) = %v, want %v", got, RouteUnprotected)
	}
	if got := Classify("/dashboardx"); got != RouteUnprotected {
		t.Errorf("Classify(/dashboardx) = %v, want %v", got, RouteUnprotected)
	}
	if got := Classify("/login/reset"); got != RoutePublic {
		t.Errorf("Classify(/login/reset) = %v, want %v", got, RoutePublic)
	}
}

func TestClassifyRootIsExactOnly(t *testing.T) {
	if got := Classify("/"); got != RoutePublic {
		t.Fatalf("Classify(/) = %v, want %v", got, RoutePublic)
	}
	// Root must not act as a prefix; double-slash paths are not public.
	for _, path := range []string{"//", "//admin", "//dashboard"} {
		if got := Classify(path); got != RouteUnprotected {
			t.Errorf("Classify(%q) = %v, want %v", path, got, RouteUnprotected)
		}
	}
}

func TestIsProtectedRoute(t *testing.T) {
	if !IsProtectedRoute("/dashboard") {
		t.Error("expected /dashboard to be protected")
	}
	if IsProtectedRoute("/login") {
		t.Error("expected /login not to be protected")
	}
	if IsProtectedRoute("/static/app.js") {
		t.Error("expected skipped path not to be protected")
	}
}
