package types

import (
	"fmt"
	"maps"
	"slices"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
)

// Status is the final outcome of one platform compile
type Status string

const (
	StatusSucceeded          Status = "succeeded"
	StatusPartiallySucceeded Status = "partially_succeeded"
	StatusFailed             Status = "failed"
)

// File is one emitted source file, ready to be written verbatim
type File struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// Dependency is one resolved third-party library
type Dependency struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// String renders the dependency as name@version
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return fmt.Sprintf("%s@%s", d.Name, d.Version)
}

// CompilationResult is the output of compiling one composition for one
// platform. The compiler never mutates it after returning; callers that
// share results (the orchestrator cache) hand out copies.
type CompilationResult struct {
	Platform     Platform        `json:"platform" yaml:"platform"`
	Status       Status          `json:"status" yaml:"status"`
	Files        []File          `json:"files" yaml:"files"`
	Dependencies []Dependency    `json:"dependencies" yaml:"dependencies"`
	Warnings     []*errors.Issue `json:"warnings" yaml:"warnings"`
	Errors       []*errors.Issue `json:"errors" yaml:"errors"`
}

// Clone copies the result with its own slices and issues
func (r *CompilationResult) Clone() *CompilationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Files = slices.Clone(r.Files)
	out.Dependencies = slices.Clone(r.Dependencies)
	out.Warnings = cloneIssues(r.Warnings)
	out.Errors = cloneIssues(r.Errors)
	return &out
}

func cloneIssues(issues []*errors.Issue) []*errors.Issue {
	if issues == nil {
		return nil
	}
	out := make([]*errors.Issue, len(issues))
	for i, issue := range issues {
		c := *issue
		c.Details = maps.Clone(issue.Details)
		out[i] = &c
	}
	return out
}

// File returns the emitted file at path
func (r *CompilationResult) File(path string) (File, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// Paths lists emitted file paths in emission order
func (r *CompilationResult) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// StatusFor derives the final status from accumulated diagnostics
func StatusFor(warnings, errs int) Status {
	switch {
	case errs > 0:
		return StatusFailed
	case warnings > 0:
		return StatusPartiallySucceeded
	default:
		return StatusSucceeded
	}
}
