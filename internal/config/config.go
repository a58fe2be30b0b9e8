// Package config holds the language configuration fixed at session start.
// A Config is a plain value; every phase receives a copy and never mutates it.
package config

import (
	"crypto/sha256"
	"fmt"
)

// DefaultVersion is the language version used when nothing is configured.
var DefaultVersion = V(0, 8, 20)

// Config selects version-sensitive language rules.
type Config struct {
	// Version gates keywords and version-dependent checks.
	Version Version
	// StructMappingKeys permits struct types as mapping keys.
	StructMappingKeys bool
	// StrictShadowing turns shadowing warnings into errors.
	StrictShadowing bool
	// CheckPragma compares `pragma solidity` constraints against Version.
	CheckPragma bool
	// MaxDiagnostics caps diagnostics kept per unit; zero means unlimited.
	MaxDiagnostics int
}

// Default returns the configuration for DefaultVersion.
func Default() Config {
	return Config{
		Version:        DefaultVersion,
		CheckPragma:    true,
		MaxDiagnostics: 512,
	}
}

// ForVersion returns Default with the given version.
func ForVersion(s string) (Config, error) {
	v, err := ParseVersion(s)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	cfg.Version = v
	return cfg, nil
}

// MustForVersion is ForVersion for constant inputs.
func MustForVersion(s string) Config {
	cfg, err := ForVersion(s)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Fingerprint identifies the rule set for cache keys.
func (c Config) Fingerprint() [32]byte {
	return sha256.Sum256(fmt.Appendf(nil, "%s|%t|%t|%t|%d",
		c.Version, c.StructMappingKeys, c.StrictShadowing, c.CheckPragma, c.MaxDiagnostics))
}

// Feature gates shared by the lexer and the checkers.
var (
	// CalldataAnywhere allows calldata parameters outside external functions.
	CalldataAnywhere = V(0, 6, 9)
	// ImplicitInterfaceOverride drops the `override` requirement for functions
	// that only implement interface functions.
	ImplicitInterfaceOverride = V(0, 8, 8)
	// CheckedArithmetic makes arithmetic revert on overflow outside unchecked blocks.
	CheckedArithmetic = V(0, 8, 0)
	// NamedMappingParams allows `mapping(address owner => uint balance)`.
	NamedMappingParams = V(0, 8, 18)
)

// Has reports whether a feature introduced at gate is enabled.
func (c Config) Has(gate Version) bool {
	return c.Version.AtLeast(gate)
}
