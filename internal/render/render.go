// Package render produces the per-zone Terraform configuration from a
// template by substituting the zone placeholder.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileAccessError reports a template that cannot be read or a destination
// that cannot be written.
type FileAccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Renderer writes TemplatePath to OutputPath with every Placeholder replaced
// by the zone name.
type Renderer struct {
	TemplatePath string
	OutputPath   string
	Placeholder  string
}

// Content returns the rendered template without writing it.
func (r Renderer) Content(zone string) ([]byte, error) {
	tmpl, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: r.TemplatePath, Err: err}
	}
	if r.Placeholder == "" {
		return tmpl, nil
	}
	return bytes.ReplaceAll(tmpl, []byte(r.Placeholder), []byte(zone)), nil
}

// Render overwrites OutputPath with the template rendered for zone.
func (r Renderer) Render(zone string) error {
	content, err := r.Content(zone)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FileAccessError{Op: "write", Path: r.OutputPath, Err: fmt.Errorf("creating parent directory: %w", err)}
		}
	}
	if err := os.WriteFile(r.OutputPath, content, 0o644); err != nil {
		return &FileAccessError{Op: "write", Path: r.OutputPath, Err: err}
	}
	return nil
}

// ErrNoPlaceholder is returned by Check when the template never mentions the
// placeholder, so every zone would render identically.
var ErrNoPlaceholder = errors.New("template does not contain the zone placeholder")

// Check reports whether the template is readable and contains the
// placeholder. Render does not call it.
func (r Renderer) Check() error {
	tmpl, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		return &FileAccessError{Op: "read", Path: r.TemplatePath, Err: err}
	}
	if r.Placeholder == "" || !bytes.Contains(tmpl, []byte(r.Placeholder)) {
		return fmt.Errorf("%s: %w", r.TemplatePath, ErrNoPlaceholder)
	}
	return nil
}

// Count returns how many placeholders the template holds.
func (r Renderer) Count() (int, error) {
	tmpl, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		return 0, &FileAccessError{Op: "read", Path: r.TemplatePath, Err: err}
	}
	if r.Placeholder == "" {
		return 0, nil
	}
	return bytes.Count(tmpl, []byte(r.Placeholder)), nil
}
