package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up by FindManifest.
const FileName = "inlinesvg.yaml"

// reserved names are the sentinels an icon may not shadow.
var reserved = map[string]bool{"NULL": true, "NONE": true, "HIDDEN": true}

// Manifest represents an inlinesvg.yaml file.
type Manifest struct {
	// Version is appended to remote icon URLs as a cache-busting ?v= query.
	Version     string            `yaml:"version,omitempty"`
	Base        string            `yaml:"base,omitempty"`
	UniquifyIDs bool              `yaml:"uniquifyIDs,omitempty"`
	UniqueHash  string            `yaml:"uniqueHash,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	Icons       map[string]string `yaml:"icons"`
}

// Resolved contains resolved manifest values.
type Resolved struct {
	// Path is the manifest file.
	Path string
	// Dir holds local icons when Remote is false.
	Dir string
	// Remote is true when icons are fetched over HTTP.
	Remote      bool
	Version     string
	UniquifyIDs bool
	UniqueHash  string
	Timeout     time.Duration
	Header      http.Header
	// Paths maps icon names to absolute URLs (Remote) or slash paths
	// relative to Dir.
	Paths map[string]string
}

// Names returns the icon names in sorted order.
func (r *Resolved) Names() []string {
	names := make([]string, 0, len(r.Paths))
	for name := range r.Paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

// Resolve loads the manifest at path and resolves icon locations.
func Resolve(path string) (*Resolved, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return m.Resolve(abs)
}

// Resolve validates m and resolves icon locations. manifestPath anchors
// local icons.
func (m *Manifest) Resolve(manifestPath string) (*Resolved, error) {
	if len(m.Icons) == 0 {
		return nil, errors.New("manifest lists no icons")
	}

	version, err := canonicalVersion(m.Version)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Path:        manifestPath,
		Dir:         filepath.Dir(manifestPath),
		Version:     version,
		UniquifyIDs: m.UniquifyIDs,
		UniqueHash:  strings.TrimSpace(m.UniqueHash),
		Header:      make(http.Header),
		Paths:       make(map[string]string, len(m.Icons)),
	}

	if t := strings.TrimSpace(m.Timeout); t != "" {
		r.Timeout, err = time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", t, err)
		}
	}
	for k, v := range m.Headers {
		r.Header.Set(k, v)
	}

	var base *url.URL
	if b := strings.TrimSpace(m.Base); b != "" {
		base, err = url.Parse(b)
		if err != nil {
			return nil, fmt.Errorf("invalid base %q: %w", b, err)
		}
		if base.Scheme != "http" && base.Scheme != "https" {
			return nil, fmt.Errorf("base must be an http or https URL (got %q)", b)
		}
		r.Remote = true
	}

	for name, icon := range m.Icons {
		if err := validateName(name); err != nil {
			return nil, err
		}
		icon = strings.TrimSpace(icon)
		if icon == "" {
			return nil, fmt.Errorf("icon %s has no path", name)
		}
		if base == nil {
			r.Paths[name] = path.Clean(filepath.ToSlash(icon))
			continue
		}
		ref, err := url.Parse(icon)
		if err != nil {
			return nil, fmt.Errorf("icon %s: %w", name, err)
		}
		u := base.ResolveReference(ref)
		if version != "" {
			q := u.Query()
			q.Set("v", version)
			u.RawQuery = q.Encode()
		}
		r.Paths[name] = u.String()
	}

	return r, nil
}

// FindManifest walks up from the current directory to find FileName.
func FindManifest() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found", FileName)
		}
		dir = parent
	}
}

// canonicalVersion accepts semantic versions with or without the leading v.
func canonicalVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("version must be a semantic version (got %q)", v)
	}
	return semver.Canonical(v), nil
}

// validateName rejects names that cannot appear in an animation name or that
// collide with a sentinel.
func validateName(name string) error {
	if name == "" {
		return errors.New("icon name cannot be empty")
	}
	if reserved[name] {
		return fmt.Errorf("icon name %q is reserved", name)
	}
	if name[0] >= '0' && name[0] <= '9' {
		return fmt.Errorf("icon name cannot start with a digit (%q)", name)
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("icon name contains invalid character %q in %q", r, name)
		}
	}
	return nil
}
