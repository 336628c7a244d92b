// Package assets serves the static files under /static.
package assets

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
)

// Prefix is the URL path static files are served from.
const Prefix = "/static/"

// NewFS returns the directory dir on disk when it exists, so assets can be
// edited without a rebuild, and an in-memory copy of embedded's static
// directory otherwise.
func NewFS(osFs afero.Fs, dir string, embedded fs.FS) (afero.Fs, error) {
	if dir != "" {
		if ok, err := afero.DirExists(osFs, dir); err == nil && ok {
			slog.Info("Serving static assets from disk", "dir", dir)
			return afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, dir)), nil
		}
	}

	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded static dir: %w", err)
	}
	mem, err := copyToMemory(afero.FromIOFS{FS: sub})
	if err != nil {
		return nil, err
	}
	slog.Info("Serving embedded static assets")
	return afero.NewReadOnlyFs(mem), nil
}

// copyToMemory loads src into a MemMapFs rooted at "/", the form
// http.FileServer asks for.
func copyToMemory(src afero.Fs) (afero.Fs, error) {
	mem := afero.NewMemMapFs()
	err := afero.Walk(src, ".", func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		target := path.Join("/", name)
		if info.IsDir() {
			return mem.MkdirAll(target, 0o755)
		}
		data, err := afero.ReadFile(src, name)
		if err != nil {
			return err
		}
		return afero.WriteFile(mem, target, data, 0o644)
	})
	if err != nil {
		return nil, fmt.Errorf("load embedded assets: %w", err)
	}
	return mem, nil
}

// Handler serves files from files under Prefix.
func Handler(files afero.Fs) echo.HandlerFunc {
	server := http.StripPrefix(Prefix, http.FileServer(afero.NewHttpFs(files)))
	return echo.WrapHandler(server)
}

// Register mounts the asset handler on e.
func Register(e *echo.Echo, files afero.Fs) {
	e.GET(Prefix+"*", Handler(files))
}
