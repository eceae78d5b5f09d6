// Package types provides shared data structures for the capsule compiler.
//
// This package defines the value types every stage of the pipeline passes
// around, so that the registry, validator, composition builder, renderer,
// aggregator and platform compilers agree on one shape.
//
// Core Types:
//   - CapsuleDefinition: Versioned component description with prop schema
//   - PlatformImplementation: Per-platform code template and dependencies
//   - AppComposition, CapsuleInstance: Composition submitted for compilation
//   - CompilationResult, File, Dependency: Output of one platform compile
//
// Platforms:
//   - web, ios, android, desktop (see AllPlatforms)
//
// Example Usage:
//
//	def := types.CapsuleDefinition{
//	    ID:      "button",
//	    Name:    "Button",
//	    Version: "1.0.0",
//	    Props:   []types.PropSpec{{Name: "label", Type: types.PropString, Required: true}},
//	    Platforms: map[types.Platform]types.PlatformImplementation{
//	        types.PlatformWeb: {Framework: "react", CodeTemplate: "<button>{{label}}</button>"},
//	    },
//	}
package types
