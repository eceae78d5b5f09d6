// Package id provides identifier generation for the compiler.
//
// Two kinds of identifiers live here and they must never be mixed:
//   - Build IDs: prefixed ULIDs, unique per compile run, used only in logs
//     and metrics. They never reach generated files.
//   - Project IDs: name-based UUIDs derived from the app name, so repeated
//     compiles of the same composition emit identical files.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// BuildID identifies a single compile run
type BuildID string

// ProjectID identifies a generated project across runs
type ProjectID string

const (
	BuildPrefix = "build"
)

// projectNamespace scopes project UUIDs to this compiler
var projectNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://capsulec.dev/projects"))

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewBuildID generates a new build ID
func NewBuildID() BuildID {
	return BuildID(Default().GenerateWithPrefix(BuildPrefix))
}

// NewProjectID derives the stable project ID for an app name.
// Names are compared case-insensitively with surrounding space trimmed.
func NewProjectID(appName string) ProjectID {
	name := strings.ToLower(strings.TrimSpace(appName))
	return ProjectID(uuid.NewSHA1(projectNamespace, []byte(name)).String())
}

func (id BuildID) String() string   { return string(id) }
func (id ProjectID) String() string { return string(id) }
