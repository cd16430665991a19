package core

import (
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
)

// Platform selects the path comparison rules applied to locations.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
)

// ParsePlatform maps a GOOS-style name to a Platform. Unknown names fall back to linux rules.
func ParsePlatform(s string) Platform {
	switch Platform(strings.ToLower(s)) {
	case PlatformDarwin:
		return PlatformDarwin
	case PlatformWindows:
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// CaseInsensitive reports whether the platform's default file system ignores case.
func (p Platform) CaseInsensitive() bool {
	return p == PlatformDarwin || p == PlatformWindows
}

// Location references a file or folder by path.
type Location string

func (l Location) String() string { return string(l) }

// Base returns the last element of the location.
func (l Location) Base() string {
	p := strings.TrimRight(strings.ReplaceAll(string(l), "\\", "/"), "/")
	if p == "" {
		return string(l)
	}
	return path.Base(p)
}

// ComparisonKey normalizes a location for equality checks: separators become '/',
// the path is cleaned, trailing separators are dropped and case is folded on
// case-insensitive platforms.
func ComparisonKey(l Location, p Platform) string {
	s := string(l)
	if p == PlatformWindows {
		s = strings.ReplaceAll(s, "\\", "/")
	}
	if s == "" {
		return ""
	}
	s = path.Clean(s)
	if len(s) > 1 {
		s = strings.TrimRight(s, "/")
		if s == "" {
			s = "/"
		}
	}
	if p.CaseInsensitive() {
		s = cases.Fold().String(s)
	}
	return s
}

// SameLocation compares two locations by comparison key.
func SameLocation(a, b Location, p Platform) bool {
	return ComparisonKey(a, p) == ComparisonKey(b, p)
}

// IsEqualOrParent reports whether child equals parent or lives below it.
func IsEqualOrParent(child, parent Location, p Platform) bool {
	c := ComparisonKey(child, p)
	pk := ComparisonKey(parent, p)
	if c == pk {
		return true
	}
	if pk == "/" {
		return strings.HasPrefix(c, "/")
	}
	return strings.HasPrefix(c, pk+"/")
}

// LocationHash returns a stable identifier derived from the comparison key.
func LocationHash(l Location, p Platform) string {
	sum := sha256.Sum256([]byte(ComparisonKey(l, p)))
	return fmt.Sprintf("%x", sum[:16])
}
