// Package web embeds the server-rendered templates.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templates embed.FS

// Templates returns the template directory rooted at templates/.
func Templates() http.FileSystem {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
