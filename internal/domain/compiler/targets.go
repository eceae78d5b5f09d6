package compiler

import (
	"sort"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// targets maps every platform to its Target constructor
var targets = map[types.Platform]func() Target{
	types.PlatformWeb:     func() Target { return &WebTarget{} },
	types.PlatformIOS:     func() Target { return &IOSTarget{} },
	types.PlatformAndroid: func() Target { return &AndroidTarget{} },
	types.PlatformDesktop: func() Target { return &DesktopTarget{} },
}

// TargetFor returns the Target of a platform
func TargetFor(platform types.Platform) (Target, bool) {
	ctor, ok := targets[platform]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// New creates the compiler of a platform. Unknown platforms yield an
// UNKNOWN_PLATFORM issue.
func New(platform types.Platform, opts ...Option) (Compiler, error) {
	target, ok := TargetFor(platform)
	if !ok {
		return nil, errors.NewUnknownPlatform(string(platform))
	}
	return NewBase(target, opts...), nil
}

// Platforms lists the platforms with a compiler, sorted
func Platforms() []types.Platform {
	out := make([]types.Platform, 0, len(targets))
	for p := range targets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
