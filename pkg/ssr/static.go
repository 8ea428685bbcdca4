package ssr

import (
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticRoot is one directory static assets are served from.
type staticRoot struct {
	dir  string
	fsys fs.FS
}

// staticRelPath returns a sanitized relative path for a static file request.
// It rejects traversal and absolute-path tricks so static serving cannot
// escape the configured directories.
func staticRelPath(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}

	// Reject NUL (can appear via %00) and platform-dependent separators.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// A remaining leading "/" is an absolute-path attempt ("//etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// staticFiles serves files from a list of directories, first match wins.
type staticFiles struct {
	roots      []staticRoot
	exclude    map[string]bool // absolute paths never served
	production bool
}

func newStaticFiles(dirs []string, exclude []string, production bool) *staticFiles {
	s := &staticFiles{exclude: make(map[string]bool), production: production}
	for _, d := range dirs {
		s.roots = append(s.roots, staticRoot{dir: d, fsys: os.DirFS(d)})
	}
	for _, e := range exclude {
		if abs, err := filepath.Abs(e); err == nil {
			s.exclude[abs] = true
		}
	}
	return s
}

// open returns the first regular file matching urlPath.
func (s *staticFiles) open(urlPath string) (fs.File, fs.FileInfo, string, bool) {
	rel, ok := staticRelPath(urlPath)
	if !ok {
		return nil, nil, "", false
	}
	for _, root := range s.roots {
		if abs, err := filepath.Abs(filepath.Join(root.dir, filepath.FromSlash(rel))); err == nil && s.exclude[abs] {
			continue
		}
		f, err := root.fsys.Open(rel)
		if err != nil {
			continue
		}
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			f.Close()
			continue
		}
		return f, info, rel, true
	}
	return nil, nil, "", false
}

// serve writes the file for r if one exists and reports whether it did.
// Only GET and HEAD are served from disk.
func (s *staticFiles) serve(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	f, info, rel, ok := s.open(r.URL.Path)
	if !ok {
		return false
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return false
	}
	s.applyCacheHeaders(w, rel)
	http.ServeContent(w, r, rel, info.ModTime(), rs)
	return true
}

// applyCacheHeaders sets Cache-Control. Development never caches;
// production caches fingerprinted files for a year.
func (s *staticFiles) applyCacheHeaders(w http.ResponseWriter, rel string) {
	switch {
	case !s.production:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case isFingerprinted(rel):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	default:
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}
}

// isFingerprinted checks for a hash segment before the extension, as in
// "entry-client.a1b2c3d4.js".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
