package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if c.Len() != 10 {
		t.Errorf("default catalog has %d categories, want 10", c.Len())
	}
	all := c.All()
	if all[0].ID != "moradia" || all[len(all)-1].ID != "lazer" {
		t.Errorf("default catalog order broken: first=%s last=%s", all[0].ID, all[len(all)-1].ID)
	}
	if got := len(c.Primary()); got != PrimaryCount {
		t.Errorf("Primary() returned %d categories, want %d", got, PrimaryCount)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	yaml := "categories:\n  - id: agua\n    label: Água\n  - id: luz\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if c.Len() != 2 {
		t.Fatalf("catalog has %d categories, want 2", c.Len())
	}
	if got := c.Label("agua"); got != "Água" {
		t.Errorf("Label(agua) = %q, want Água", got)
	}
	// A missing label falls back to the id.
	if got := c.Label("luz"); got != "luz" {
		t.Errorf("Label(luz) = %q, want luz", got)
	}
	// Unknown ids fall back to themselves for display.
	if got := c.Label("gone"); got != "gone" {
		t.Errorf("Label(gone) = %q, want gone", got)
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "categories: []"},
		{"empty id", "categories:\n  - id: ''\n    label: X"},
		{"duplicate id", "categories:\n  - id: a\n  - id: a"},
		{"not yaml", ":::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse accepted %s catalog", tt.name)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Lookup("moradia"); !ok {
		t.Error("Lookup(moradia) = false, want true")
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup(nope) = true, want false")
	}
}
