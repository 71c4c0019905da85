package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"lodestar/internal/core/errors"
)

// discoverCrates maps crate names to their root source files. Explicitly
// configured crates win; otherwise the watch paths are scanned for
// conventional Cargo layouts (src/lib.rs, src/main.rs).
func (a *App) discoverCrates() (map[string]string, error) {
	crates := make(map[string]string)

	for _, c := range a.Config.CrateRoots {
		root, err := crateRootFile(c.Root)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxCrate, c.Name)
		}
		name := c.Name
		if name == "" {
			name = crateNameFor(root)
		}
		crates[name] = root
	}
	if len(crates) > 0 {
		return crates, nil
	}

	dirGlobs, err := compileGlobs(a.Config.Exclude.Dirs)
	if err != nil {
		return nil, err
	}

	for _, watchRoot := range a.Config.WatchPaths {
		err := filepath.WalkDir(watchRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				base := filepath.Base(path)
				for _, g := range dirGlobs {
					if g.Match(base) || g.Match(filepath.ToSlash(path)) {
						return filepath.SkipDir
					}
				}
				return nil
			}
			base := filepath.Base(path)
			if base != "lib.rs" && base != "main.rs" {
				return nil
			}
			if filepath.Base(filepath.Dir(path)) != "src" {
				return nil
			}
			name := crateNameFor(path)
			if _, taken := crates[name]; !taken {
				crates[name] = path
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "scan watch paths")
		}
	}
	return crates, nil
}

// crateRootFile accepts either a root .rs file or a crate directory.
func crateRootFile(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "crate root not found"),
			errors.CtxPath, root)
	}
	if !info.IsDir() {
		return root, nil
	}
	for _, candidate := range []string{
		filepath.Join(root, "src", "lib.rs"),
		filepath.Join(root, "src", "main.rs"),
		filepath.Join(root, "lib.rs"),
		filepath.Join(root, "main.rs"),
	} {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.AddContext(
		errors.New(errors.CodeNotFound, "no root source file in crate directory"),
		errors.CtxPath, root)
}

// crateNameFor names a crate after its enclosing directory, skipping the
// conventional src/ segment, falling back to the file stem.
func crateNameFor(rootFile string) string {
	dir := filepath.Dir(rootFile)
	if filepath.Base(dir) == "src" {
		dir = filepath.Dir(dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		name = strings.TrimSuffix(filepath.Base(rootFile), ".rs")
	}
	return name
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern"),
				errors.CtxPath, p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
