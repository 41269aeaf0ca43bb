package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testManifest = `
icons:
  FooIcon: icons/foo.svg
  BarIcon: icons/bar.svg
`

func setupProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"inlinesvg.yaml": manifest,
		"icons/foo.svg":  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 36 36"><polygon points=""/></svg>`,
		"icons/bar.svg":  `<svg viewBox="0 0 80 80"><path d=""/></svg>`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "inlinesvg.yaml")
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestVersion(t *testing.T) {
	out := capture(t)
	if err := run([]string{"--version"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "inlinesvg version "+Version) {
		t.Errorf("output = %q", out.String())
	}
}

func TestHelpListsCommands(t *testing.T) {
	out := capture(t)
	if err := run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"catalog", "keyframes", "check"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help does not list %q", name)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	capture(t)
	if err := run([]string{"bogus"}); err == nil {
		t.Error("unknown command should fail")
	}
}

func TestManifestFlagRequiresValue(t *testing.T) {
	if err := run([]string{"keyframes", "--manifest"}); err == nil {
		t.Error("--manifest without a value should fail")
	}
}

func TestKeyframes(t *testing.T) {
	p := setupProject(t, testManifest)
	out := capture(t)
	if err := run([]string{"--manifest=" + p, "keyframes"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := strings.Join([]string{
		"@keyframes svg_NULL {}",
		"@keyframes svg_NONE {}",
		"@keyframes svg_HIDDEN {}",
		"@keyframes svg_BarIcon {}",
		"@keyframes svg_FooIcon {}",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("keyframes = %q, want %q", out.String(), want)
	}
}

func TestCheck(t *testing.T) {
	p := setupProject(t, testManifest)
	out := capture(t)
	if err := run([]string{"--manifest", p, "check", "--concurrency", "1"}); err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out.String(), "2 icons, 0 failed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCheckReportsFailures(t *testing.T) {
	p := setupProject(t, testManifest+"  Missing: icons/missing.svg\n")
	out := capture(t)
	if err := run([]string{"--manifest", p, "check"}); err == nil {
		t.Error("check should fail when an icon is missing")
	}
	if !strings.Contains(out.String(), "FAIL") || !strings.Contains(out.String(), "3 icons, 1 failed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCatalog(t *testing.T) {
	p := setupProject(t, testManifest)
	out := capture(t)
	if err := run([]string{"--manifest", p, "catalog", "--class", "icons"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	html := out.String()
	for _, want := range []string{
		`<div class="icons">`,
		`<section data-svg-name="FooIcon"><h1>FooIcon</h1>`,
		`id="svg-style-keyframes"`,
		"<polygon",
		"<path",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("catalog missing %q:\n%s", want, html)
		}
	}
	if n := strings.Count(html, `data-svg-status="complete"`); n != 2 {
		t.Errorf("complete icons = %d, want 2", n)
	}
}

func TestParseCatalogArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    catalogOptions
		wantErr bool
	}{
		{nil, catalogOptions{className: "catalog", useDefault: true}, false},
		{[]string{"--class=x", "--no-default"}, catalogOptions{className: "x"}, false},
		{[]string{"--class"}, catalogOptions{}, true},
		{[]string{"--bogus"}, catalogOptions{}, true},
	}
	for _, tt := range tests {
		got, err := parseCatalogArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCatalogArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCatalogArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}
