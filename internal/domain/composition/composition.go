package composition

import (
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// NoParent marks a root node
const NoParent = -1

// Node is one instance in the validated arena. Parent and Children are
// indices into Composition.Nodes.
type Node struct {
	Index      int
	InstanceID string
	CapsuleID  string
	Props      map[string]interface{}
	Parent     int
	Children   []int
	Depth      int
	// Position among the parent's children (or among the roots)
	Position int
}

// IsRoot reports whether the node is a top-level instance
func (n *Node) IsRoot() bool {
	return n.Parent == NoParent
}

// Composition is a validated composition. Nodes are stored in depth-first
// pre-order, so a parent always precedes its children.
// A Composition is immutable once built and safe for concurrent readers.
type Composition struct {
	app             types.AppComposition
	nodes           []Node
	roots           []int
	index           map[string]int
	registryVersion uint64
}

// AppName returns the application name
func (c *Composition) AppName() string {
	return c.app.AppName
}

// Theme returns the theme tokens
func (c *Composition) Theme() types.Theme {
	return c.app.Theme
}

// Targets returns the requested targets, defaulting to every platform
func (c *Composition) Targets() []types.Platform {
	return c.app.EffectiveTargets()
}

// App returns the normalized composition with generated ids filled in
func (c *Composition) App() *types.AppComposition {
	app := c.app
	return &app
}

// Len returns the number of instances
func (c *Composition) Len() int {
	return len(c.nodes)
}

// Nodes returns every node in depth-first pre-order
func (c *Composition) Nodes() []Node {
	return c.nodes
}

// Node returns the node at index i
func (c *Composition) Node(i int) *Node {
	return &c.nodes[i]
}

// Roots returns the indices of the top-level instances in declared order
func (c *Composition) Roots() []int {
	return c.roots
}

// Lookup finds a node by instance id
func (c *Composition) Lookup(instanceID string) (*Node, bool) {
	i, ok := c.index[instanceID]
	if !ok {
		return nil, false
	}
	return &c.nodes[i], true
}

// RegistryVersion is the registry version the composition was validated against
func (c *Composition) RegistryVersion() uint64 {
	return c.registryVersion
}

// CapsuleIDs returns the distinct capsule ids in first-use order
func (c *Composition) CapsuleIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for i := range c.nodes {
		id := c.nodes[i].CapsuleID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
