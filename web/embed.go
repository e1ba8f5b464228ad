// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static file system (stylesheets).
func StaticFS() fs.FS { return mustSub("static") }

// TemplatesFS returns the templates file system.
func TemplatesFS() fs.FS { return mustSub("templates") }

// mustSub panics on failure; the directories are embedded at build time.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(fmt.Sprintf("embedded %s directory: %v", dir, err))
	}
	return sub
}
