// Package compileinfo reports how a chipqc binary was built.
package compileinfo

import (
	"fmt"
	"io"
	"runtime/debug"
	"sort"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps module path to version for every linked dependency.
	Deps map[string]string
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " (modified)"
	}

	version := c.Version
	if version == "" {
		version = "devel"
	}

	return fmt.Sprintf("%s %s built with %s at commit %v (%v)%s", c.Package, version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Get reads the build information embedded by the Go toolchain. Fields are
// left empty when it is unavailable, such as under `go test`.
func Get() CompileInfo {
	out := CompileInfo{Deps: map[string]string{}}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	for _, d := range z.Deps {
		if d.Replace != nil {
			d = d.Replace
		}
		out.Deps[d.Path] = d.Version
	}

	return out
}

// Fprint writes the summary line and, if deps is set, one line per
// dependency sorted by module path.
func (c CompileInfo) Fprint(w io.Writer, deps bool) {
	fmt.Fprintln(w, c)
	if !deps {
		return
	}

	paths := make([]string, 0, len(c.Deps))
	for p := range c.Deps {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fmt.Fprintf(w, "\t%s %s\n", p, c.Deps[p])
	}
}
