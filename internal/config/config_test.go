package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
		err  bool
	}{
		{"0.8.20", V(0, 8, 20), false},
		{"0.7", V(0, 7, 0), false},
		{" 1 ", V(1, 0, 0), false},
		{"0.8.x", Version{}, true},
		{"", Version{}, true},
		{"1.2.3.4", Version{}, true},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("ParseVersion(%q) err = %v, want err=%v", tt.in, err, tt.err)
		}
		if err != nil && !errors.Is(err, ErrBadVersion) {
			t.Fatalf("ParseVersion(%q) error %v does not wrap ErrBadVersion", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConstraintAllows(t *testing.T) {
	tests := []struct {
		constraint string
		version    Version
		want       bool
	}{
		{"^0.8.0", V(0, 8, 20), true},
		{"^0.8.0", V(0, 9, 0), false},
		{"^0.8.21", V(0, 8, 20), false},
		{">=0.6.0 <0.9.0", V(0, 8, 20), true},
		{">=0.6.0 <0.9.0", V(0, 5, 17), false},
		{">= 0.6.0 < 0.8.0", V(0, 8, 0), false},
		{"=0.8.19", V(0, 8, 19), true},
		{"0.8.19", V(0, 8, 20), false},
		{"0.8", V(0, 8, 20), true},
		{"~0.7.0", V(0, 7, 6), true},
		{"~0.7.0", V(0, 8, 0), false},
		{"0.4.24 || ^0.8.0", V(0, 8, 1), true},
		{"0.4.24 || ^0.8.0", V(0, 5, 0), false},
	}
	for _, tt := range tests {
		c, err := ParseConstraint(tt.constraint)
		if err != nil {
			t.Fatalf("ParseConstraint(%q): %v", tt.constraint, err)
		}
		if got := c.Allows(tt.version); got != tt.want {
			t.Errorf("%q allows %v = %v, want %v", tt.constraint, tt.version, got, tt.want)
		}
	}
}

func TestParseConstraintRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "^x", "0.8 ||"} {
		if _, err := ParseConstraint(in); err == nil {
			t.Errorf("ParseConstraint(%q) accepted", in)
		}
	}
}

func TestLoadTOMLAndYAML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "solfront.toml")
	if err := os.WriteFile(tomlPath, []byte("version = \"0.6.12\"\nstruct_mapping_keys = true\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	yamlPath := filepath.Join(dir, "solfront.yaml")
	if err := os.WriteFile(yamlPath, []byte("version: 0.8.4\nstrict_shadowing: true\nmax_diagnostics: 10\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(tomlPath)
	if err != nil {
		t.Fatalf("Load toml: %v", err)
	}
	if cfg.Version != V(0, 6, 12) || !cfg.StructMappingKeys || !cfg.CheckPragma {
		t.Fatalf("toml config = %+v", cfg)
	}

	cfg, err = Load(yamlPath)
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	if cfg.Version != V(0, 8, 4) || !cfg.StrictShadowing || cfg.MaxDiagnostics != 10 {
		t.Fatalf("yaml config = %+v", cfg)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	if _, err := Parse([]byte("{}"), ".json"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestFeatureGates(t *testing.T) {
	old := MustForVersion("0.6.5")
	if old.Has(CalldataAnywhere) || old.Has(CheckedArithmetic) {
		t.Fatalf("0.6.5 should predate both gates")
	}
	if !Default().Has(CheckedArithmetic) {
		t.Fatalf("default version should have checked arithmetic")
	}
	if old.Fingerprint() == Default().Fingerprint() {
		t.Fatalf("fingerprints should differ across versions")
	}
}
