package renderer

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Family is the host operating system family.
type Family string

const (
	FamilyMacOS   Family = "macos"
	FamilyWindows Family = "windows"
	FamilyOther   Family = "other"
)

// FamilyFor maps a GOOS value to a Family.
func FamilyFor(goos string) Family {
	switch goos {
	case "darwin":
		return FamilyMacOS
	case "windows":
		return FamilyWindows
	default:
		return FamilyOther
	}
}

// Packaging tells whether the process runs from a packaged build or from a
// source checkout.
type Packaging string

const (
	Source   Packaging = "source"
	Packaged Packaging = "packaged"
)

// Portable Graphviz directory names.
const (
	portableMac = "graphviz-mac"
	portableWin = "graphviz-win"
)

// Env is the input of the search policy.
type Env struct {
	Family    Family
	Packaging Packaging

	// Anchor is the directory candidates are resolved against: the
	// executable's directory for packaged builds, the project root otherwise.
	Anchor string
}

// ExecutableName returns the dot executable name for f.
func ExecutableName(f Family) string {
	if f == FamilyWindows {
		return "dot.exe"
	}
	return "dot"
}

// Candidate is one place dot may live.
type Candidate struct {
	Path   string
	Intent string
}

// LookPathFunc resolves an executable name against PATH.
type LookPathFunc func(file string) (string, error)

// StatFunc reports file information for a path.
type StatFunc func(name string) (fs.FileInfo, error)

// Candidates returns the ordered candidate list for env. The PATH candidate
// is appended last, and only when lookPath resolves the executable name.
func Candidates(env Env, lookPath LookPathFunc) []Candidate {
	cands := locationCandidates(env)
	if c, ok := pathCandidate(env, lookPath); ok {
		cands = append(cands, c)
	}
	return cands
}

func locationCandidates(env Env) []Candidate {
	a := env.Anchor
	macDot := filepath.Join(portableMac, "bin", "dot")
	winDot := filepath.Join(portableWin, "bin", "dot.exe")

	switch {
	case env.Packaging == Packaged && env.Family == FamilyMacOS:
		// Anchor is <dist>/<App>.app/Contents/MacOS.
		dist := filepath.Join(a, "..", "..", "..")
		return []Candidate{
			{filepath.Join(dist, macDot), "packaged macOS: graphviz-mac beside the .app bundle"},
			{filepath.Join(dist, "..", macDot), "packaged macOS: graphviz-mac one level above the bundle directory"},
		}
	case env.Packaging == Packaged && env.Family == FamilyWindows:
		return []Candidate{
			{filepath.Join(a, winDot), "packaged Windows: graphviz-win beside the executable"},
			{filepath.Join(a, "graphviz", "bin", "dot.exe"), "packaged Windows: graphviz beside the executable"},
			{filepath.Join(a, "..", winDot), "packaged Windows: graphviz-win one level above the executable"},
		}
	case env.Packaging == Source && env.Family == FamilyMacOS:
		return []Candidate{
			{filepath.Join(a, macDot), "source checkout: graphviz-mac in the project root"},
			{filepath.Join(a, "dist", macDot), "source checkout: graphviz-mac in dist/"},
		}
	case env.Packaging == Source && env.Family == FamilyWindows:
		return []Candidate{
			{filepath.Join(a, winDot), "source checkout: graphviz-win in the project root"},
			{filepath.Join(a, "dist", winDot), "source checkout: graphviz-win in dist/"},
		}
	default:
		return nil
	}
}

func pathCandidate(env Env, lookPath LookPathFunc) (Candidate, bool) {
	name := ExecutableName(env.Family)
	intent := "system PATH: " + name
	if lookPath == nil {
		return Candidate{Path: name, Intent: intent}, false
	}
	p, err := lookPath(name)
	if err != nil || p == "" {
		return Candidate{Path: name, Intent: intent}, false
	}
	return Candidate{Path: p, Intent: intent}, true
}

// DetectEnv derives the search environment of the running process.
//
// Binaries built by go run and go test live in a go-build temporary
// directory; those count as a source checkout anchored at the project root,
// which is inferred from this file's location. Everything else counts as
// packaged and is anchored at the executable's directory.
func DetectEnv() (Env, error) {
	env := Env{Family: FamilyFor(runtime.GOOS), Packaging: Packaged}

	exe, err := os.Executable()
	if err != nil {
		return env, err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	if isGoBuildPath(exe) {
		env.Packaging = Source
		env.Anchor = projectRoot()
		return env, nil
	}
	env.Anchor = filepath.Dir(exe)
	return env, nil
}

func isGoBuildPath(exe string) bool {
	for _, part := range strings.Split(filepath.ToSlash(exe), "/") {
		if strings.HasPrefix(part, "go-build") {
			return true
		}
	}
	return false
}

// projectRoot returns the module root, two levels above this package.
// It falls back to the working directory when source paths are trimmed.
func projectRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok || !filepath.IsAbs(file) {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// Probe is a candidate together with the result of its existence check.
type Probe struct {
	Candidate
	Exists bool
}

// Locator resolves the dot executable. The zero value is not usable; build
// one with NewLocator or fill every field.
type Locator struct {
	Env      Env
	Stat     StatFunc
	LookPath LookPathFunc
}

// NewLocator returns a Locator for the running process.
func NewLocator() (*Locator, error) {
	env, err := DetectEnv()
	if err != nil {
		return nil, err
	}
	return &Locator{Env: env, Stat: os.Stat, LookPath: exec.LookPath}, nil
}

// Describe probes every candidate, including the PATH candidate when PATH
// does not resolve it.
func (l *Locator) Describe() []Probe {
	var probes []Probe
	for _, c := range locationCandidates(l.Env) {
		probes = append(probes, Probe{Candidate: c, Exists: l.exists(c.Path)})
	}
	c, ok := pathCandidate(l.Env, l.LookPath)
	probes = append(probes, Probe{Candidate: c, Exists: ok && l.exists(c.Path)})
	return probes
}

// Locate returns the first candidate that exists, or an
// *ExecutableNotFoundError listing everything that was searched.
func (l *Locator) Locate() (string, error) {
	probes := l.Describe()
	for _, p := range probes {
		if p.Exists {
			return p.Path, nil
		}
	}

	searched := make([]Candidate, len(probes))
	for i, p := range probes {
		searched[i] = p.Candidate
	}
	return "", &ExecutableNotFoundError{Env: l.Env, Searched: searched}
}

func (l *Locator) exists(path string) bool {
	stat := l.Stat
	if stat == nil {
		stat = os.Stat
	}
	_, err := stat(path)
	return err == nil
}
