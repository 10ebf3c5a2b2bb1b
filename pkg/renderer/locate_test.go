package renderer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paths(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Path
	}
	return out
}

func noPath(string) (string, error) { return "", os.ErrNotExist }

func TestFamilyFor(t *testing.T) {
	tests := map[string]Family{
		"darwin":  FamilyMacOS,
		"windows": FamilyWindows,
		"linux":   FamilyOther,
		"freebsd": FamilyOther,
	}
	for goos, want := range tests {
		if got := FamilyFor(goos); got != want {
			t.Errorf("FamilyFor(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestCandidates(t *testing.T) {
	root := filepath.FromSlash("/opt/app")
	j := filepath.Join

	tests := []struct {
		name string
		env  Env
		want []string
	}{
		{
			name: "packaged macos",
			env:  Env{Family: FamilyMacOS, Packaging: Packaged, Anchor: j(root, "dist", "App.app", "Contents", "MacOS")},
			want: []string{
				j(root, "dist", "graphviz-mac", "bin", "dot"),
				j(root, "graphviz-mac", "bin", "dot"),
			},
		},
		{
			name: "packaged windows",
			env:  Env{Family: FamilyWindows, Packaging: Packaged, Anchor: j(root, "bin")},
			want: []string{
				j(root, "bin", "graphviz-win", "bin", "dot.exe"),
				j(root, "bin", "graphviz", "bin", "dot.exe"),
				j(root, "graphviz-win", "bin", "dot.exe"),
			},
		},
		{
			name: "source macos",
			env:  Env{Family: FamilyMacOS, Packaging: Source, Anchor: root},
			want: []string{
				j(root, "graphviz-mac", "bin", "dot"),
				j(root, "dist", "graphviz-mac", "bin", "dot"),
			},
		},
		{
			name: "source windows",
			env:  Env{Family: FamilyWindows, Packaging: Source, Anchor: root},
			want: []string{
				j(root, "graphviz-win", "bin", "dot.exe"),
				j(root, "dist", "graphviz-win", "bin", "dot.exe"),
			},
		},
		{
			name: "other family has no location candidates",
			env:  Env{Family: FamilyOther, Packaging: Source, Anchor: root},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(Candidates(tt.env, noPath))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCandidatesAppendsPathLast(t *testing.T) {
	env := Env{Family: FamilyMacOS, Packaging: Source, Anchor: "/src"}
	lookPath := func(name string) (string, error) {
		if name != "dot" {
			t.Errorf("lookPath(%q), want dot", name)
		}
		return "/usr/local/bin/dot", nil
	}

	got := Candidates(env, lookPath)
	if len(got) != 3 {
		t.Fatalf("len(Candidates()) = %d, want 3", len(got))
	}
	if last := got[len(got)-1].Path; last != "/usr/local/bin/dot" {
		t.Errorf("last candidate = %q, want PATH result", last)
	}
}

func TestExecutableName(t *testing.T) {
	if got := ExecutableName(FamilyWindows); got != "dot.exe" {
		t.Errorf("ExecutableName(windows) = %q", got)
	}
	if got := ExecutableName(FamilyMacOS); got != "dot" {
		t.Errorf("ExecutableName(macos) = %q", got)
	}
}

// fakeFS reports the listed paths as existing.
func fakeFS(existing ...string) StatFunc {
	set := make(map[string]bool, len(existing))
	for _, p := range existing {
		set[p] = true
	}
	return func(name string) (fs.FileInfo, error) {
		if set[name] {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
}

func TestLocateOnlyPathCandidateExists(t *testing.T) {
	l := &Locator{
		Env:      Env{Family: FamilyWindows, Packaging: Packaged, Anchor: `C:\app`},
		Stat:     fakeFS(`C:\Graphviz\bin\dot.exe`),
		LookPath: func(string) (string, error) { return `C:\Graphviz\bin\dot.exe`, nil },
	}

	got, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != `C:\Graphviz\bin\dot.exe` {
		t.Errorf("Locate() = %q, want PATH candidate", got)
	}
}

func TestLocatePrefersEarlierCandidate(t *testing.T) {
	env := Env{Family: FamilyMacOS, Packaging: Source, Anchor: "/src"}
	first := filepath.Join("/src", "graphviz-mac", "bin", "dot")
	second := filepath.Join("/src", "dist", "graphviz-mac", "bin", "dot")

	l := &Locator{
		Env:      env,
		Stat:     fakeFS(first, second, "/usr/bin/dot"),
		LookPath: func(string) (string, error) { return "/usr/bin/dot", nil },
	}
	got, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != first {
		t.Errorf("Locate() = %q, want %q", got, first)
	}
}

func TestLocateNotFound(t *testing.T) {
	l := &Locator{
		Env:      Env{Family: FamilyMacOS, Packaging: Source, Anchor: "/src"},
		Stat:     fakeFS(),
		LookPath: noPath,
	}

	_, err := l.Locate()
	nf, ok := err.(*ExecutableNotFoundError)
	if !ok {
		t.Fatalf("Locate() error = %T, want *ExecutableNotFoundError", err)
	}
	// Two location candidates plus the unresolved PATH entry.
	if len(nf.Searched) != 3 {
		t.Errorf("Searched = %d entries, want 3", len(nf.Searched))
	}
	msg := nf.Error()
	for _, c := range nf.Searched {
		if !strings.Contains(msg, c.Path) {
			t.Errorf("error message missing %q:\n%s", c.Path, msg)
		}
	}
	if !strings.Contains(msg, "packaging=source") || !strings.Contains(msg, "platform=macos") {
		t.Errorf("error message missing environment:\n%s", msg)
	}
}

func TestDescribe(t *testing.T) {
	env := Env{Family: FamilyMacOS, Packaging: Source, Anchor: "/src"}
	second := filepath.Join("/src", "dist", "graphviz-mac", "bin", "dot")
	l := &Locator{Env: env, Stat: fakeFS(second), LookPath: noPath}

	got := l.Describe()
	want := []bool{false, true, false}
	if len(got) != len(want) {
		t.Fatalf("Describe() = %d probes, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Exists != want[i] {
			t.Errorf("probe %d (%s) Exists = %v, want %v", i, p.Path, p.Exists, want[i])
		}
	}
}

func TestDetectEnvUnderGoTest(t *testing.T) {
	env, err := DetectEnv()
	if err != nil {
		t.Fatalf("DetectEnv() error: %v", err)
	}
	if env.Packaging != Source {
		t.Errorf("Packaging = %q, want source for a go test binary", env.Packaging)
	}
	if _, err := os.Stat(filepath.Join(env.Anchor, "go.mod")); err != nil {
		t.Errorf("Anchor %q is not the module root: %v", env.Anchor, err)
	}
}
