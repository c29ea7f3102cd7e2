package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                           "/",
		"/metrics":                   "/metrics",
		"/auth/login":                "/auth/login",
		"/candidates":                "/candidates",
		"/candidates/abc":            "/candidates/:id",
		"/jobs/42":                   "/jobs/:id",
		"/jobs/42/extra":             "/jobs/42/extra",
		"/admin/users/abc":           "/admin/users/:id",
		"/admin/logs":                "/admin/logs",
		"/candidates?status=nouveau": "/candidates",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
