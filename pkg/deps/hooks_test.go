package deps

import (
	"testing"
	"time"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/observability"
)

type recordingHooks struct {
	runs     []string
	repos    int
	failures int
}

func (h *recordingHooks) OnResolveStart(runID string, _ int, _ string) {
	h.runs = append(h.runs, runID)
}

func (h *recordingHooks) OnResolveComplete(_ string, repos, _ int, _ time.Duration, err error) {
	h.repos = repos
	if err != nil {
		h.failures++
	}
}

func TestResolveReportsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetResolveHooks(h)
	defer observability.Reset()

	owners := mapOwners{"X": "repo1", "Y": "repo2"}
	if _, err := Resolve([]Declaration{{Name: "X", Package: "A"}, {Name: "Y", Package: "A"}}, owners, Options{}); err != nil {
		t.Fatal(err)
	}
	if len(h.runs) != 1 || h.runs[0] == "" || h.repos != 2 {
		t.Errorf("hooks = %+v", h)
	}

	_, err := Resolve([]Declaration{
		{Name: "X", Version: "1.0", Package: "A"},
		{Name: "X", Version: "2.0", Package: "B"},
	}, owners, Options{Mode: Strict})
	if !errors.Is(err, errors.ErrCodeVersionConflict) {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(h.runs) != 2 || h.runs[0] == h.runs[1] || h.failures != 1 {
		t.Errorf("hooks = %+v", h)
	}
}
