package xcursor

import (
	"bufio"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/gobwas/glob"
)

// CoreTheme is the pseudo theme that resolves straight to cursor font glyphs.
const CoreTheme = "core"

// DefaultTheme is tried after the requested theme comes up empty.
const DefaultTheme = "default"

// Resolution is the outcome of a theme lookup: either a cursor file or a
// cursor font glyph.
type Resolution struct {
	// Theme is the theme the hit was found in.
	Theme string
	Path  string
	Glyph uint16
	// IsGlyph is set for core font resolutions. Path is empty then.
	IsGlyph bool
}

// Resolver finds cursor files across the search path. Filesystem errors
// and malformed index files count as misses, never as failures.
type Resolver struct {
	fs    billy.Filesystem
	paths []string
}

// NewResolver returns a resolver over paths. A nil fs reads the host
// filesystem.
func NewResolver(fs billy.Filesystem, paths []string) *Resolver {
	if fs == nil {
		fs = osfs.New("/")
	}
	return &Resolver{fs: fs, paths: append([]string(nil), paths...)}
}

// Paths returns the search path in lookup order.
func (r *Resolver) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Open opens a resolved cursor file.
func (r *Resolver) Open(res Resolution) (billy.File, error) {
	return r.fs.Open(res.Path)
}

// Resolve looks name up in theme and, depth first, in the themes it
// inherits from. Every theme is visited at most once, so inheritance
// cycles terminate.
func (r *Resolver) Resolve(theme, name string) (Resolution, bool) {
	return r.resolve(theme, name, make(map[string]bool))
}

func (r *Resolver) resolve(theme, name string, visited map[string]bool) (Resolution, bool) {
	if theme == CoreTheme {
		if g, ok := CoreGlyph(name); ok {
			return Resolution{Theme: theme, Glyph: g, IsGlyph: true}, true
		}
	}
	if visited[theme] {
		return Resolution{}, false
	}
	visited[theme] = true

	for _, dir := range r.paths {
		p := path.Join(dir, theme, "cursors", name)
		if fi, err := r.fs.Stat(p); err == nil && !fi.IsDir() {
			return Resolution{Theme: theme, Path: p}, true
		}
	}

	for _, parent := range r.Parents(theme) {
		if res, ok := r.resolve(parent, name, visited); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

// Parents returns the Inherits list of the first index.theme for theme
// across the search path that has an Inherits line. Index files without
// one do not hide those in later directories.
func (r *Resolver) Parents(theme string) []string {
	for _, dir := range r.paths {
		f, err := r.fs.Open(path.Join(dir, theme, "index.theme"))
		if err != nil {
			continue
		}
		parents, ok := ParseInherits(f)
		f.Close()
		if ok {
			return parents
		}
	}
	return nil
}

// ParseInherits extracts the parent themes from an index.theme file. Only
// the first Inherits line counts. The file is read as a flat list of lines
// and section headers are not interpreted.
func ParseInherits(rd io.Reader) ([]string, bool) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		rest, ok := bytes.CutPrefix(sc.Bytes(), []byte("Inherits"))
		if !ok {
			continue
		}
		rest = bytes.TrimLeft(rest, " \t")
		if len(rest) == 0 || rest[0] != '=' {
			continue
		}
		fields := strings.FieldsFunc(string(rest[1:]), func(c rune) bool {
			switch c {
			case ' ', '\t', '\n', ';', ',':
				return true
			}
			return false
		})
		return fields, true
	}
	return nil, false
}

// Themes lists every theme directory on the search path. A directory is a
// theme when it has a cursors directory or an index.theme file.
func (r *Resolver) Themes() []string {
	seen := make(map[string]bool)
	var themes []string
	for _, dir := range r.paths {
		entries, err := r.fs.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if seen[name] || !r.isTheme(path.Join(dir, name)) {
				continue
			}
			seen[name] = true
			themes = append(themes, name)
		}
	}
	sort.Strings(themes)
	return themes
}

func (r *Resolver) isTheme(dir string) bool {
	if fi, err := r.fs.Stat(path.Join(dir, "cursors")); err == nil && fi.IsDir() {
		return true
	}
	if fi, err := r.fs.Stat(path.Join(dir, "index.theme")); err == nil && !fi.IsDir() {
		return true
	}
	return false
}

// Cursors lists the cursor names visible through theme and its parents.
// An empty pattern matches everything; otherwise it is a glob such as
// "*arrow*" or "{left,right}_ptr".
func (r *Resolver) Cursors(theme, pattern string) ([]string, error) {
	var g glob.Glob
	if pattern != "" {
		var err error
		if g, err = glob.Compile(pattern); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	var names []string
	var walk func(theme string, visited map[string]bool)
	walk = func(theme string, visited map[string]bool) {
		if visited[theme] {
			return
		}
		visited[theme] = true
		for _, dir := range r.paths {
			entries, err := r.fs.ReadDir(path.Join(dir, theme, "cursors"))
			if err != nil {
				continue
			}
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() || seen[name] || (g != nil && !g.Match(name)) {
					continue
				}
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, parent := range r.Parents(theme) {
			walk(parent, visited)
		}
	}
	walk(theme, make(map[string]bool))

	sort.Strings(names)
	return names, nil
}
