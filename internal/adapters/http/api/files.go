package api

import (
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// fileHandler serves single files from the flat directory dir. Nested paths,
// directories and dot files (including in-flight temp files) are not found.
// With attachments set, anything that is not an image is served as a download.
func fileHandler(dir string, attachments bool) http.HandlerFunc {
	fsys := os.DirFS(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")
		if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "/") || !fs.ValidPath(name) {
			http.NotFound(w, r)
			return
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		if attachments {
			w.Header().Set("Content-Disposition", disposition(name))
		}
		http.ServeFileFS(w, r, fsys, name)
	}
}

// disposition keeps images inline so pages can embed them.
func disposition(name string) string {
	kind := "attachment"
	if strings.HasPrefix(mime.TypeByExtension(filepath.Ext(name)), "image/") {
		kind = "inline"
	}
	return mime.FormatMediaType(kind, map[string]string{"filename": name})
}
