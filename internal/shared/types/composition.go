package types

// Theme holds the design tokens every target emits into its theme file
type Theme struct {
	Colors     map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Typography map[string]string `json:"typography,omitempty" yaml:"typography,omitempty"`
}

// Token looks up a theme token, colors first
func (t Theme) Token(name string) (string, bool) {
	if v, ok := t.Colors[name]; ok {
		return v, true
	}
	v, ok := t.Typography[name]
	return v, ok
}

// CapsuleInstance is one placement of a capsule within a composition
type CapsuleInstance struct {
	InstanceID string                 `json:"instanceId" yaml:"instanceId"`
	CapsuleID  string                 `json:"capsuleId" yaml:"capsuleId"`
	Props      map[string]interface{} `json:"props,omitempty" yaml:"props,omitempty"`
	Children   []CapsuleInstance      `json:"children,omitempty" yaml:"children,omitempty"`
}

// AppComposition is the unit submitted to the compiler. It is pure input
// and is never mutated by the compiler.
type AppComposition struct {
	AppName string            `json:"appName" yaml:"appName"`
	Theme   Theme             `json:"theme" yaml:"theme"`
	Targets []Platform        `json:"targets,omitempty" yaml:"targets,omitempty"`
	Root    []CapsuleInstance `json:"root" yaml:"root"`
}

// EffectiveTargets returns Targets, or every platform when none are set
func (a *AppComposition) EffectiveTargets() []Platform {
	if len(a.Targets) == 0 {
		return append([]Platform(nil), AllPlatforms...)
	}
	return append([]Platform(nil), a.Targets...)
}

// CountInstances returns the number of instances in the whole tree
func (a *AppComposition) CountInstances() int {
	var count func([]CapsuleInstance) int
	count = func(list []CapsuleInstance) int {
		n := len(list)
		for _, inst := range list {
			n += count(inst.Children)
		}
		return n
	}
	return count(a.Root)
}
