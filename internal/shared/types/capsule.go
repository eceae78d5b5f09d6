package types

import (
	"fmt"
	"sort"
)

// PropType is the declared type of a capsule prop
type PropType string

const (
	PropString  PropType = "string"
	PropNumber  PropType = "number"
	PropBoolean PropType = "boolean"
	PropArray   PropType = "array"
	PropObject  PropType = "object"
	PropEnum    PropType = "enum"
)

// Valid reports whether t is a known prop type
func (t PropType) Valid() bool {
	switch t {
	case PropString, PropNumber, PropBoolean, PropArray, PropObject, PropEnum:
		return true
	}
	return false
}

// PropSpec declares a single prop in a capsule's schema
type PropSpec struct {
	Name        string        `json:"name" yaml:"name" toml:"name"`
	Type        PropType      `json:"type" yaml:"type" toml:"type"`
	Required    bool          `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Default     interface{}   `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Options     []interface{} `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// HasDefault reports whether the prop declares a default value
func (p PropSpec) HasDefault() bool {
	return p.Default != nil
}

// PlatformImplementation is one native realization of a capsule
type PlatformImplementation struct {
	Framework    string   `json:"framework" yaml:"framework" toml:"framework"`
	MinVersion   string   `json:"minVersion,omitempty" yaml:"minVersion,omitempty" toml:"minVersion,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	CodeTemplate string   `json:"codeTemplate" yaml:"codeTemplate" toml:"codeTemplate"`
	Imports      []string `json:"imports,omitempty" yaml:"imports,omitempty" toml:"imports,omitempty"`
}

// CapsuleDefinition is an immutable, versioned component description.
// Definitions are owned by the registry; everything else holds read-only
// references.
type CapsuleDefinition struct {
	ID          string                              `json:"id" yaml:"id" toml:"id"`
	Name        string                              `json:"name" yaml:"name" toml:"name"`
	Description string                              `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Category    string                              `json:"category" yaml:"category" toml:"category"`
	Tags        []string                            `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Version     string                              `json:"version" yaml:"version" toml:"version"`
	Children    bool                                `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Props       []PropSpec                          `json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`
	Platforms   map[Platform]PlatformImplementation `json:"platforms" yaml:"platforms" toml:"platforms"`
}

// Prop returns the spec for the named prop
func (c *CapsuleDefinition) Prop(name string) (PropSpec, bool) {
	for _, p := range c.Props {
		if p.Name == name {
			return p, true
		}
	}
	return PropSpec{}, false
}

// Implementation returns the implementation for a platform
func (c *CapsuleDefinition) Implementation(p Platform) (PlatformImplementation, bool) {
	impl, ok := c.Platforms[p]
	return impl, ok
}

// SupportedPlatforms returns the platforms this capsule implements, in
// AllPlatforms order
func (c *CapsuleDefinition) SupportedPlatforms() []Platform {
	out := make([]Platform, 0, len(c.Platforms))
	for _, p := range AllPlatforms {
		if _, ok := c.Platforms[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Defaults returns the default value of every prop that declares one
func (c *CapsuleDefinition) Defaults() map[string]interface{} {
	defaults := make(map[string]interface{})
	for _, p := range c.Props {
		if p.HasDefault() {
			defaults[p.Name] = p.Default
		}
	}
	return defaults
}

// HasTag reports whether the capsule carries tag
func (c *CapsuleDefinition) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the schema shape of a definition. Code templates are
// opaque and never inspected here.
func (c *CapsuleDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("capsule id is required")
	}
	if len(c.Platforms) == 0 {
		return fmt.Errorf("capsule %s: at least one platform implementation is required", c.ID)
	}

	platforms := make([]string, 0, len(c.Platforms))
	for p := range c.Platforms {
		platforms = append(platforms, string(p))
	}
	sort.Strings(platforms)
	for _, p := range platforms {
		if !Platform(p).Valid() {
			return fmt.Errorf("capsule %s: unknown platform %q", c.ID, p)
		}
	}

	seen := make(map[string]bool, len(c.Props))
	for _, prop := range c.Props {
		if prop.Name == "" {
			return fmt.Errorf("capsule %s: prop name is required", c.ID)
		}
		if seen[prop.Name] {
			return fmt.Errorf("capsule %s: duplicate prop %q", c.ID, prop.Name)
		}
		seen[prop.Name] = true

		if !prop.Type.Valid() {
			return fmt.Errorf("capsule %s: prop %q has unknown type %q", c.ID, prop.Name, prop.Type)
		}
		if prop.Type == PropEnum && len(prop.Options) == 0 {
			return fmt.Errorf("capsule %s: enum prop %q declares no options", c.ID, prop.Name)
		}
		if prop.Type != PropEnum && len(prop.Options) > 0 {
			return fmt.Errorf("capsule %s: prop %q has options but is not an enum", c.ID, prop.Name)
		}
		if prop.Required && prop.HasDefault() {
			return fmt.Errorf("capsule %s: prop %q cannot be both required and defaulted", c.ID, prop.Name)
		}
		if prop.HasDefault() {
			if prop.Type == PropEnum {
				if !ContainsValue(prop.Options, prop.Default) {
					return fmt.Errorf("capsule %s: default of %q is not one of its options", c.ID, prop.Name)
				}
			} else if !MatchesType(prop.Type, prop.Default) {
				return fmt.Errorf("capsule %s: default of %q is not a %s", c.ID, prop.Name, prop.Type)
			}
		}
	}

	return nil
}

// Clone returns a deep copy of the definition
func (c *CapsuleDefinition) Clone() *CapsuleDefinition {
	out := *c
	out.Tags = append([]string(nil), c.Tags...)

	if c.Props != nil {
		out.Props = make([]PropSpec, len(c.Props))
		for i, p := range c.Props {
			p.Default = CloneValue(p.Default)
			if p.Options != nil {
				opts := make([]interface{}, len(p.Options))
				for j, o := range p.Options {
					opts[j] = CloneValue(o)
				}
				p.Options = opts
			}
			out.Props[i] = p
		}
	}

	out.Platforms = make(map[Platform]PlatformImplementation, len(c.Platforms))
	for p, impl := range c.Platforms {
		impl.Dependencies = append([]string(nil), impl.Dependencies...)
		impl.Imports = append([]string(nil), impl.Imports...)
		out.Platforms[p] = impl
	}

	return &out
}
