package architecture_test

import (
	"errors"
	"go/build"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// layerRules lists, per internal/ subtree, the internal/ prefixes it must not import.
var layerRules = []struct {
	dir       string
	forbidden []string
}{
	{"domain", []string{"platform/", "data/", "clients/", "modules/", "services", "jobs/", "http/", "app"}},
	{"platform", []string{"data/", "clients/", "modules/", "services", "jobs/", "http/", "app"}},
	{"data", []string{"clients/", "modules/", "services", "jobs/", "http/", "app"}},
	{"clients", []string{"data/", "modules/", "services", "jobs/", "http/", "app"}},
	{"modules", []string{"services", "jobs/", "http/", "app"}},
	{"services", []string{"jobs/", "http/", "app"}},
	{"jobs", []string{"http/", "app"}},
	{"http", []string{"jobs/", "app"}},
}

func TestLayersKeepTheirDependencyDirection(t *testing.T) {
	root, module := moduleRoot(t)
	for _, rule := range layerRules {
		t.Run(rule.dir, func(t *testing.T) {
			deps := internalDeps(t, filepath.Join(root, "internal", rule.dir), module)
			if len(deps) == 0 {
				t.Fatalf("no packages found under internal/%s", rule.dir)
			}
			var broken []string
			for pkg, imports := range deps {
				for _, imp := range imports {
					for _, bad := range rule.forbidden {
						if strings.HasPrefix(imp, bad) {
							broken = append(broken, pkg+" -> internal/"+imp)
							break
						}
					}
				}
			}
			if len(broken) > 0 {
				sort.Strings(broken)
				t.Fatalf("internal/%s reaches a higher layer:\n  %s", rule.dir, strings.Join(broken, "\n  "))
			}
		})
	}
}

// moduleRoot climbs from the test's directory to go.mod and returns that
// directory with the declared module path.
func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		raw, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			for _, line := range strings.Split(string(raw), "\n") {
				if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok {
					return dir, strings.Trim(strings.TrimSpace(rest), `"`)
				}
			}
			t.Fatalf("%s/go.mod has no module line", dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above the test directory")
		}
		dir = parent
	}
}

// internalDeps maps each package directory below base to the module-internal
// packages its sources and tests import, relative to internal/.
func internalDeps(t *testing.T, base, module string) map[string][]string {
	t.Helper()
	prefix := module + "/internal/"
	out := map[string][]string{}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		pkg, err := build.ImportDir(path, 0)
		var noGo *build.NoGoError
		if errors.As(err, &noGo) {
			return nil
		}
		if err != nil {
			return err
		}
		var deps []string
		for _, list := range [][]string{pkg.Imports, pkg.TestImports, pkg.XTestImports} {
			for _, imp := range list {
				if rel, ok := strings.CutPrefix(imp, prefix); ok {
					deps = append(deps, rel)
				}
			}
		}
		rel, _ := filepath.Rel(filepath.Dir(base), path)
		out[filepath.ToSlash(rel)] = deps
		return nil
	})
	if err != nil {
		t.Fatalf("scan %s: %v", base, err)
	}
	return out
}
