// Package paths provides the canonical project layout of every target.
//
// All generated paths are relative, slash-separated and rooted at the
// project directory, so a CompilationResult can be written anywhere.
//
// # Layouts
//
//	web/desktop:  src/components/<Name>.tsx
//	ios:          Sources/<App>/Components/<Name>.swift
//	android:      app/src/main/java/<pkg>/ui/components/<Name>.kt
//	all:          .capsule/manifest.yaml
//
// # Usage
//
//	ios := paths.IOSProject("Shop")
//	file := ios.Component("ButtonBuy") // Sources/Shop/Components/ButtonBuy.swift
//
//	if err := paths.ValidateRelative(file); err != nil {
//	    // refuse to write outside the project
//	}
package paths
