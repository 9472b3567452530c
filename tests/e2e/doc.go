// Package e2e holds the browser scenarios for the bloglist application.
//
// The scenarios are behind the e2e build tag:
//
//	go test -tags e2e ./tests/e2e/...
//
// They target BLOG_E2E_FRONTEND_URL and BLOG_E2E_BACKEND_URL, or an in-process
// reference app when those are unreachable (see BLOG_E2E_EMBEDDED).
package e2e
