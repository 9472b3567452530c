// Package web renders the single page frontend of the bloglist app.
package web

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/index.pongo2
var indexTemplate string

// Frontend serves the rendered index page.
type Frontend struct {
	page []byte
}

// FrontendOptions are the values injected into the page.
type FrontendOptions struct {
	Title string
	// APIBase prefixes every API call; empty means same origin.
	APIBase string
	// NotificationMillis is how long banners stay visible.
	NotificationMillis int
}

// NewFrontend renders the page once; the output does not depend on the request.
func NewFrontend(opts FrontendOptions) (*Frontend, error) {
	if opts.Title == "" {
		opts.Title = "Bloglist"
	}
	if opts.NotificationMillis <= 0 {
		opts.NotificationMillis = 5000
	}

	tpl, err := pongo2.FromString(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	page, err := tpl.ExecuteBytes(pongo2.Context{
		"title":               opts.Title,
		"api_base":            opts.APIBase,
		"notification_millis": opts.NotificationMillis,
	})
	if err != nil {
		return nil, fmt.Errorf("render index template: %w", err)
	}
	return &Frontend{page: page}, nil
}

func (f *Frontend) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.page)
}
