package server

import (
	"net/http"
	"path"

	httperrors "github.com/gokatarajesh/docquiz/pkg/http/errors"
)

// staticFiles serves files from dir. "/" maps to index.html; directories and
// missing files are 404.
func staticFiles(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("path")
		if name == "" {
			name = "index.html"
		}

		f, err := root.Open(path.Clean("/" + name))
		if err != nil {
			httperrors.RespondNotFound(w, "Not found")
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			httperrors.RespondNotFound(w, "Not found")
			return
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	}
}
