package manifest

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Filename is the catkin manifest file name.
const Filename = "package.xml"

// Parser reads one manifest file.
type Parser interface {
	// Parse reads the manifest at path.
	Parse(path string) (*Package, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
}

// Dependency is one declared dependency.
type Dependency struct {
	Name    string
	Version string // version_eq, "" when unpinned
}

// Package is a parsed catkin package.
type Package struct {
	Name    string       // Package name from <name>
	Version string       // Package version from <version>
	Format  int          // Manifest format (1, 2 or 3)
	Path    string       // Path of the package.xml
	Build   []Dependency // build_depend, buildtool_depend, depend
	Run     []Dependency // run_depend, exec_depend, depend
}

// Declarations returns the package's dependencies as resolver input: build
// dependencies first, then run dependencies, each in declared order.
func (p *Package) Declarations() []deps.Declaration {
	out := make([]deps.Declaration, 0, len(p.Build)+len(p.Run))
	for _, d := range p.Build {
		out = append(out, deps.Declaration{Name: d.Name, Version: d.Version, Package: p.Name, Category: deps.Build})
	}
	for _, d := range p.Run {
		out = append(out, deps.Declaration{Name: d.Name, Version: d.Version, Package: p.Name, Category: deps.Run})
	}
	return out
}

// Declarations concatenates the declarations of pkgs in the given order.
func Declarations(pkgs []*Package) []deps.Declaration {
	var out []deps.Declaration
	for _, p := range pkgs {
		out = append(out, p.Declarations()...)
	}
	return out
}

// Names returns the package names in order.
func Names(pkgs []*Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}

// Catkin parses package.xml files in format 1, 2 and 3.
type Catkin struct{}

func (Catkin) Supports(name string) bool { return name == Filename }

// Parse reads and decodes the package.xml at path.
func (c Catkin) Parse(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	pkg, err := c.decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	pkg.Path = path
	return pkg, nil
}

type packageXML struct {
	XMLName  xml.Name  `xml:"package"`
	Format   int       `xml:"format,attr"`
	Name     string    `xml:"name"`
	Version  string    `xml:"version"`
	Elements []element `xml:",any"`
}

type element struct {
	XMLName xml.Name
	Value   string     `xml:",chardata"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

func (c Catkin) decode(data []byte) (*Package, error) {
	var doc packageXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(doc.Name)
	if err := errors.ValidateCatkinPackageName(name); err != nil {
		return nil, err
	}

	pkg := &Package{
		Name:    name,
		Version: strings.TrimSpace(doc.Version),
		Format:  doc.Format,
	}
	if pkg.Format == 0 {
		pkg.Format = 1
	}

	for _, el := range doc.Elements {
		dep := Dependency{Name: strings.TrimSpace(el.Value), Version: checkoutRef(el.Attrs)}
		if dep.Name == "" {
			continue
		}
		switch el.XMLName.Local {
		case "build_depend", "buildtool_depend":
			pkg.Build = append(pkg.Build, dep)
		case "run_depend", "exec_depend":
			pkg.Run = append(pkg.Run, dep)
		case "depend":
			pkg.Build = append(pkg.Build, dep)
			pkg.Run = append(pkg.Run, dep)
		}
	}
	return pkg, nil
}

// checkoutRef returns the version a dependency pins, which doubles as the
// branch or tag to check out. Only version_eq names a ref; range attributes
// (version_gte, version_lt, ...) cannot be checked out and leave the version
// empty, so the dependency gets the default branch.
func checkoutRef(attrs []xml.Attr) string {
	for _, a := range attrs {
		if a.Name.Local == "version_eq" {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

var _ Parser = Catkin{}
