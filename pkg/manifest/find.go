package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// IgnoreMarker makes Find skip the directory that contains it.
const IgnoreMarker = "CATKIN_IGNORE"

// FindOptions configures a manifest scan.
type FindOptions struct {
	Exclude []string // Directories to skip, relative to the working directory or absolute
	Parser  Parser   // Defaults to Catkin
}

// Find walks root and parses every package manifest below it. Packages are
// returned in lexical path order, which is the order the resolver sees them.
//
// Hidden directories, excluded directories and directories containing a
// CATKIN_IGNORE file are skipped, and a package directory is not searched
// for nested packages. Two packages with the same name fail the scan.
func Find(root string, opts FindOptions) ([]*Package, error) {
	parser := opts.Parser
	if parser == nil {
		parser = Catkin{}
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			excluded[abs] = true
		}
	}

	var pkgs []*Package
	seen := make(map[string]string)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, err := filepath.Abs(path); err == nil && excluded[abs] {
			return filepath.SkipDir
		}
		if fileExists(filepath.Join(path, IgnoreMarker)) {
			return filepath.SkipDir
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() || !parser.Supports(e.Name()) {
				continue
			}
			pkg, err := parser.Parse(filepath.Join(path, e.Name()))
			if err != nil {
				return err
			}
			if prev, dup := seen[pkg.Name]; dup {
				return errors.New(errors.ErrCodeInvalidManifest, "package %s found twice: %s and %s", pkg.Name, prev, pkg.Path)
			}
			seen[pkg.Name] = pkg.Path
			pkgs = append(pkgs, pkg)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", root)
	}
	return pkgs, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
