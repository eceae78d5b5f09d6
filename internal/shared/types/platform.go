package types

import "strings"

// Platform identifies a native output target
type Platform string

const (
	PlatformWeb     Platform = "web"     // React web components
	PlatformIOS     Platform = "ios"     // SwiftUI (declarative UI)
	PlatformAndroid Platform = "android" // Jetpack Compose (component tree)
	PlatformDesktop Platform = "desktop" // Tauri native shell
)

// AllPlatforms lists every recognized platform in default target order
var AllPlatforms = []Platform{PlatformIOS, PlatformAndroid, PlatformWeb, PlatformDesktop}

// Valid reports whether p is a recognized platform identifier
func (p Platform) Valid() bool {
	switch p {
	case PlatformWeb, PlatformIOS, PlatformAndroid, PlatformDesktop:
		return true
	}
	return false
}

func (p Platform) String() string { return string(p) }

// ParsePlatform converts a user-supplied identifier to a Platform.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}
