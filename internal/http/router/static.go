package router

import (
	"net/http"
	"path"
	"path/filepath"

	"codemasters_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// staticFallback serves files from dir and answers every other GET/HEAD with
// the landing page so client-side routes resolve. Other methods get a JSON 404.
func staticFallback(dir string) gin.HandlerFunc {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			httpkit.Fail(c, http.StatusNotFound, "Not found.")
			return
		}

		if isFile(root, c.Request.URL.Path) {
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		c.File(index)
	}
}

func isFile(root http.FileSystem, urlPath string) bool {
	f, err := root.Open(path.Clean("/" + urlPath))
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
