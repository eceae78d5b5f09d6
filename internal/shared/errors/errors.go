// Package errors defines the typed issues the capsule compiler reports.
//
// Every diagnostic, fatal or not, is an *Issue carrying a stable code and the
// capsule, instance, prop and platform it concerns. Composition-level
// failures are grouped in a *ValidationError so callers see every violation
// at once rather than the first one.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Code identifies the kind of issue.
type Code string

const (
	ErrUnknownCapsule        Code = "UNKNOWN_CAPSULE"
	ErrChildrenNotAllowed    Code = "CHILDREN_NOT_ALLOWED"
	ErrMissingRequiredProp   Code = "MISSING_REQUIRED_PROP"
	ErrUnknownProp           Code = "UNKNOWN_PROP"
	ErrInvalidOption         Code = "INVALID_OPTION"
	ErrTypeMismatch          Code = "TYPE_MISMATCH"
	ErrUnresolvedPlaceholder Code = "UNRESOLVED_PLACEHOLDER"
	ErrTemplateSyntax        Code = "TEMPLATE_SYNTAX"
	ErrUnsupportedOnPlatform Code = "UNSUPPORTED_ON_PLATFORM"
	ErrVersionConflict       Code = "VERSION_CONFLICT"
	ErrUnknownPlatform       Code = "UNKNOWN_PLATFORM"
	ErrInvalidCapsule        Code = "INVALID_CAPSULE"
	ErrInvalidComposition    Code = "INVALID_COMPOSITION"
	ErrDuplicateInstance     Code = "DUPLICATE_INSTANCE"
	ErrNotFound              Code = "NOT_FOUND"
	ErrPackagingFailed       Code = "PACKAGING_FAILED"
)

// Severity separates issues that abort work from those that only inform.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single typed diagnostic.
type Issue struct {
	Code       Code           `json:"code" yaml:"code"`
	Severity   Severity       `json:"severity" yaml:"severity"`
	Message    string         `json:"message" yaml:"message"`
	CapsuleID  string         `json:"capsuleId,omitempty" yaml:"capsuleId,omitempty"`
	InstanceID string         `json:"instanceId,omitempty" yaml:"instanceId,omitempty"`
	Prop       string         `json:"prop,omitempty" yaml:"prop,omitempty"`
	Platform   string         `json:"platform,omitempty" yaml:"platform,omitempty"`
	Details    map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// IsWarning reports whether the issue is non-fatal.
func (i *Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// Key identifies an issue for de-duplication.
func (i *Issue) Key() string {
	return strings.Join([]string{string(i.Code), i.InstanceID, i.Prop, i.Platform, i.Message}, "|")
}

// NewUnknownCapsule reports an instance referencing a capsule the registry does not hold.
func NewUnknownCapsule(instanceID, capsuleID string) *Issue {
	return &Issue{
		Code:       ErrUnknownCapsule,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance %q references unknown capsule %q", instanceID, capsuleID),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
	}
}

// NewChildrenNotAllowed reports children placed under a capsule that cannot host them.
func NewChildrenNotAllowed(instanceID, capsuleID string, count int) *Issue {
	return &Issue{
		Code:       ErrChildrenNotAllowed,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("capsule %q does not accept children (instance %q has %d)", capsuleID, instanceID, count),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Details:    map[string]any{"children": count},
	}
}

// NewMissingRequiredProp reports a required prop without binding or default.
func NewMissingRequiredProp(instanceID, capsuleID, prop string) *Issue {
	return &Issue{
		Code:       ErrMissingRequiredProp,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance %q of %q is missing required prop %q", instanceID, capsuleID, prop),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Prop:       prop,
	}
}

// NewUnknownProp reports a binding for a prop the schema does not declare.
func NewUnknownProp(instanceID, capsuleID, prop string) *Issue {
	return &Issue{
		Code:       ErrUnknownProp,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance %q of %q binds unknown prop %q", instanceID, capsuleID, prop),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Prop:       prop,
	}
}

// NewInvalidOption reports an enum value outside the declared options.
func NewInvalidOption(instanceID, capsuleID, prop string, value any, options []any) *Issue {
	return &Issue{
		Code:       ErrInvalidOption,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance %q of %q: %v is not a valid option for %q", instanceID, capsuleID, value, prop),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Prop:       prop,
		Details:    map[string]any{"value": value, "options": options},
	}
}

// NewTypeMismatch reports a bound value of the wrong primitive type.
func NewTypeMismatch(instanceID, capsuleID, prop, expected, actual string) *Issue {
	return &Issue{
		Code:       ErrTypeMismatch,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance %q of %q: prop %q expects %s, got %s", instanceID, capsuleID, prop, expected, actual),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Prop:       prop,
		Details:    map[string]any{"expected": expected, "actual": actual},
	}
}

// NewUnresolvedPlaceholder reports template placeholders with no value.
func NewUnresolvedPlaceholder(instanceID, capsuleID, platform string, names []string) *Issue {
	return &Issue{
		Code:       ErrUnresolvedPlaceholder,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("template for %q on %s has unresolved placeholders: %s", capsuleID, platform, strings.Join(names, ", ")),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Platform:   platform,
		Details:    map[string]any{"placeholders": names},
	}
}

// NewTemplateSyntax reports a malformed placeholder expression.
func NewTemplateSyntax(instanceID, capsuleID, platform, msg string) *Issue {
	return &Issue{
		Code:       ErrTemplateSyntax,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("template for %q on %s: %s", capsuleID, platform, msg),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Platform:   platform,
	}
}

// NewUnsupportedOnPlatform warns that an instance was skipped for a platform.
func NewUnsupportedOnPlatform(instanceID, capsuleID, platform string) *Issue {
	return &Issue{
		Code:       ErrUnsupportedOnPlatform,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf("capsule %q is not supported on %s; instance %q skipped", capsuleID, platform, instanceID),
		CapsuleID:  capsuleID,
		InstanceID: instanceID,
		Platform:   platform,
	}
}

// NewVersionConflict warns about a dependency requested at irreconcilable versions.
func NewVersionConflict(platform, dependency, kept, requested, reason string) *Issue {
	return &Issue{
		Code:     ErrVersionConflict,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("dependency %q: kept %q over %q (%s)", dependency, kept, requested, reason),
		Platform: platform,
		Details:  map[string]any{"dependency": dependency, "kept": kept, "requested": requested},
	}
}

// NewUnknownPlatform reports an unrecognized platform identifier.
func NewUnknownPlatform(platform string) *Issue {
	return &Issue{
		Code:     ErrUnknownPlatform,
		Severity: SeverityError,
		Message:  fmt.Sprintf("unknown platform %q", platform),
		Platform: platform,
	}
}

// NewInvalidCapsule reports a definition whose schema shape is invalid.
func NewInvalidCapsule(capsuleID string, err error) *Issue {
	return &Issue{
		Code:      ErrInvalidCapsule,
		Severity:  SeverityError,
		Message:   err.Error(),
		CapsuleID: capsuleID,
	}
}

// NewInvalidComposition reports a malformed composition document.
func NewInvalidComposition(msg string) *Issue {
	return &Issue{
		Code:     ErrInvalidComposition,
		Severity: SeverityError,
		Message:  msg,
	}
}

// NewDuplicateInstance reports two instances sharing an id.
func NewDuplicateInstance(instanceID string) *Issue {
	return &Issue{
		Code:       ErrDuplicateInstance,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("instance id %q is used more than once", instanceID),
		InstanceID: instanceID,
	}
}

// NewNotFound reports a missing registry entry.
func NewNotFound(capsuleID string) *Issue {
	return &Issue{
		Code:      ErrNotFound,
		Severity:  SeverityError,
		Message:   fmt.Sprintf("capsule not found: %s", capsuleID),
		CapsuleID: capsuleID,
	}
}

// NewPackagingFailed reports a project file that could not be generated.
func NewPackagingFailed(platform, file string, err error) *Issue {
	return &Issue{
		Code:     ErrPackagingFailed,
		Severity: SeverityError,
		Message:  fmt.Sprintf("failed to generate %s for %s: %v", file, platform, err),
		Platform: platform,
		Details:  map[string]any{"file": file},
	}
}

// ValidationError groups every issue that made a composition invalid.
type ValidationError struct {
	Issues []*Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("%d validation issues: %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Has reports whether any grouped issue carries code.
func (e *ValidationError) Has(code Code) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Is checks if err is an Issue with the given code, or a ValidationError
// containing one.
func Is(err error, code Code) bool {
	var issue *Issue
	if stderrors.As(err, &issue) {
		return issue.Code == code
	}
	var verr *ValidationError
	if stderrors.As(err, &verr) {
		return verr.Has(code)
	}
	return false
}

// Issues extracts the issue list carried by err, if any.
func Issues(err error) []*Issue {
	var verr *ValidationError
	if stderrors.As(err, &verr) {
		return verr.Issues
	}
	var issue *Issue
	if stderrors.As(err, &issue) {
		return []*Issue{issue}
	}
	return nil
}
