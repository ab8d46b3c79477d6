// Package web holds the dashboard page and its static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// Templates returns the HTML templates.
func Templates() fs.FS {
	sub, _ := fs.Sub(files, "templates")
	return sub
}

// Static returns the assets served under /static.
func Static() fs.FS {
	sub, _ := fs.Sub(files, "static")
	return sub
}
