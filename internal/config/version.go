package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadVersion is returned for text that is not a MAJOR.MINOR.PATCH triple.
var ErrBadVersion = errors.New("malformed language version")

// Version is a language version triple.
type Version struct {
	Major, Minor, Patch int
}

// V builds a Version.
func V(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// ParseVersion parses "0.8.20". Missing minor or patch components are zero.
func ParseVersion(s string) (Version, error) {
	v, _, err := parseVersionParts(s)
	return v, err
}

func parseVersionParts(s string) (Version, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, 0, fmt.Errorf("%w: empty", ErrBadVersion)
	}
	fields := strings.Split(s, ".")
	if len(fields) > 3 {
		return Version{}, 0, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, 0, fmt.Errorf("%w: %q", ErrBadVersion, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, len(fields), nil
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

// AtLeast reports v >= o.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
