package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

func pkgXML(name string, deps ...string) string {
	var b strings.Builder
	b.WriteString("<package format=\"2\">\n  <name>" + name + "</name>\n")
	for _, d := range deps {
		b.WriteString("  <depend>" + d + "</depend>\n")
	}
	b.WriteString("</package>\n")
	return b.String()
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "src", "vision", "hole"), pkgXML("hole", "roscpp"))
	writeManifest(t, filepath.Join(root, "src", "alert"), pkgXML("alert"))
	writeManifest(t, filepath.Join(root, "src", "alert", "nested"), pkgXML("nested"))
	writeManifest(t, filepath.Join(root, ".hidden", "secret"), pkgXML("secret"))
	writeManifest(t, filepath.Join(root, "src", "ignored"), pkgXML("ignored"))
	if err := os.WriteFile(filepath.Join(root, "src", "ignored", IgnoreMarker), nil, 0644); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, filepath.Join(root, "build", "gen"), pkgXML("gen"))

	pkgs, err := Find(root, FindOptions{Exclude: []string{filepath.Join(root, "build")}})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if got := strings.Join(Names(pkgs), ","); got != "alert,hole" {
		t.Errorf("Find() = %s, want alert,hole", got)
	}
}

func TestFind_Duplicate(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), pkgXML("same"))
	writeManifest(t, filepath.Join(root, "b"), pkgXML("same"))

	_, err := Find(root, FindOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Find() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
	}
}

func TestFind_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "broken"), "<package>")

	_, err := Find(root, FindOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Find() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
	}
}

func TestFind_NotADirectory(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing"), FindOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Find() error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestFind_Empty(t *testing.T) {
	pkgs, err := Find(t.TempDir(), FindOptions{})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("Find() = %d packages, want 0", len(pkgs))
	}
}
