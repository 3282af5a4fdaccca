package chipqc

import (
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(usr.HomeDir, p[2:]), nil
}

// ResolveRelative interprets ref relative to the directory that holds base.
// Absolute local paths and gs:// references are returned unchanged.
func ResolveRelative(base, ref string) (string, error) {
	if IsGoogleStorage(ref) {
		return ref, nil
	}

	ref, err := ExpandHome(ref)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(ref) {
		return ref, nil
	}

	if IsGoogleStorage(base) {
		dir := path.Dir(strings.TrimPrefix(base, "gs://"))
		return "gs://" + path.Join(dir, ref), nil
	}

	return filepath.Join(filepath.Dir(base), ref), nil
}
