package xcursor

import (
	"os"
	"strings"
)

// DefaultSearchPath is used when XCURSOR_PATH is not set.
const DefaultSearchPath = "~/.local/share/icons:~/.icons:/usr/share/icons:/usr/share/pixmaps:/usr/X11R6/lib/X11/icons"

// SearchPath builds the theme search path from XCURSOR_PATH and HOME as
// reported by getenv. A nil getenv reads the process environment.
func SearchPath(getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	spec := getenv("XCURSOR_PATH")
	if spec == "" {
		spec = DefaultSearchPath
	}
	return ExpandSearchPath(spec, getenv("HOME"))
}

// ExpandSearchPath splits a colon separated path list and expands a leading
// "~" to home. Entries that need home are dropped when home is empty.
func ExpandSearchPath(spec, home string) []string {
	var paths []string
	for _, dir := range strings.Split(spec, ":") {
		if dir == "" {
			continue
		}
		if strings.HasPrefix(dir, "~") {
			if home == "" {
				continue
			}
			dir = home + dir[1:]
		}
		paths = append(paths, dir)
	}
	return paths
}
