package render

import (
	"strings"
	"testing"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
)

func TestToDOT(t *testing.T) {
	result := &deps.Result{Records: []deps.Record{
		{Repo: "pandora_vision", Version: "master", Packages: []string{"alert", "hole"}},
		{Repo: "pandora_common", Version: "1.0", Packages: []string{"hole"}},
	}}

	dot := ToDOT(result)

	for _, want := range []string{
		`"pkg:alert" [label="alert"];`,
		`"repo:pandora_common" [label="pandora_common", fillcolor=lightblue];`,
		`"pkg:hole" -> "repo:pandora_common" [label="1.0"];`,
		`"pkg:alert" -> "repo:pandora_vision" [label="master"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if strings.Count(dot, `"pkg:hole" [`) != 1 {
		t.Errorf("package node declared more than once:\n%s", dot)
	}
	if strings.Index(dot, "repo:pandora_common\" [") > strings.Index(dot, "repo:pandora_vision\" [") {
		t.Error("repositories should be listed in name order")
	}
	if ToDOT(result) != dot {
		t.Error("ToDOT() is not deterministic")
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(&deps.Result{})
	if !strings.HasPrefix(dot, "digraph pandoradep {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
