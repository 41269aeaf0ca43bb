package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveRemote(t *testing.T) {
	p := writeManifest(t, `
version: "1.2"
base: https://cdn.example.com/icons/
uniquifyIDs: true
uniqueHash: abc
timeout: 3s
headers:
  authorization: Bearer x
icons:
  FooIcon: foo-icon.svg
  BarIcon: /static/bar.svg?x=1
`)
	r, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !r.Remote {
		t.Error("Remote = false, want true")
	}
	if r.Version != "v1.2.0" {
		t.Errorf("Version = %q, want v1.2.0", r.Version)
	}
	want := map[string]string{
		"FooIcon": "https://cdn.example.com/icons/foo-icon.svg?v=v1.2.0",
		"BarIcon": "https://cdn.example.com/static/bar.svg?v=v1.2.0&x=1",
	}
	if !reflect.DeepEqual(r.Paths, want) {
		t.Errorf("Paths = %v, want %v", r.Paths, want)
	}
	if got := r.Header.Get("Authorization"); got != "Bearer x" {
		t.Errorf("Authorization = %q", got)
	}
	if r.Timeout != 3*time.Second || !r.UniquifyIDs || r.UniqueHash != "abc" {
		t.Errorf("resolved = %+v", r)
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"BarIcon", "FooIcon"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestResolveLocal(t *testing.T) {
	p := writeManifest(t, `
version: v2.0.0
icons:
  FooIcon: ./icons/foo.svg
`)
	r, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Remote {
		t.Error("Remote = true, want false")
	}
	if r.Dir != filepath.Dir(p) {
		t.Errorf("Dir = %q, want %q", r.Dir, filepath.Dir(p))
	}
	if r.Paths["FooIcon"] != "icons/foo.svg" {
		t.Errorf("FooIcon = %q, local paths carry no version", r.Paths["FooIcon"])
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no icons", "base: https://x.test/\n"},
		{"bad version", "version: latest\nicons:\n  A: a.svg\n"},
		{"bad base scheme", "base: ftp://x.test/\nicons:\n  A: a.svg\n"},
		{"reserved name", "icons:\n  NONE: a.svg\n"},
		{"digit name", "icons:\n  1A: a.svg\n"},
		{"invalid char", "icons:\n  A.B: a.svg\n"},
		{"empty path", "icons:\n  A: ''\n"},
		{"bad timeout", "timeout: soon\nicons:\n  A: a.svg\n"},
		{"bad yaml", "icons: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(writeManifest(t, tt.body)); err == nil {
				t.Errorf("Resolve(%q) succeeded, want error", tt.body)
			}
		})
	}
}

func TestResolveMissingFile(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Error("Resolve of a missing manifest should fail")
	}
}

func TestFindManifest(t *testing.T) {
	p := writeManifest(t, "icons:\n  A: a.svg\n")
	nested := filepath.Join(filepath.Dir(p), "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got, err := FindManifest()
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	want, _ := filepath.EvalSymlinks(p)
	if g, _ := filepath.EvalSymlinks(got); g != want {
		t.Errorf("FindManifest() = %q, want %q", got, want)
	}
}
