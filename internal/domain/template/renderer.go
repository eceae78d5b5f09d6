package template

import (
	"strconv"
	"strings"
	"sync"

	"github.com/GriffinCanCode/capsulec/internal/domain/schema"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Input is everything a template may reference for one instance
type Input struct {
	Capsule    *types.CapsuleDefinition
	Platform   types.Platform
	InstanceID string
	// Name is the generated component identifier
	Name string
	// Props are the bound props; schema defaults fill the gaps
	Props map[string]interface{}
	// Children are the component identifiers of the direct children
	Children []string
	Theme    types.Theme
	AppName  string
}

// Renderer renders code templates. It is safe for concurrent use; parsed
// templates are memoized by source text.
type Renderer struct {
	programs sync.Map // template source -> *program
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render substitutes every placeholder of impl.CodeTemplate.
// It returns TEMPLATE_SYNTAX for malformed placeholders and
// UNRESOLVED_PLACEHOLDER naming every reference that has no value.
func (r *Renderer) Render(impl types.PlatformImplementation, in Input) (string, *errors.Issue) {
	capsuleID := ""
	if in.Capsule != nil {
		capsuleID = in.Capsule.ID
	}

	prog, err := r.program(impl.CodeTemplate)
	if err != nil {
		return "", errors.NewTemplateSyntax(in.InstanceID, capsuleID, string(in.Platform), err.Error())
	}

	s := &scope{in: in, props: in.Props}
	if in.Capsule != nil {
		s.props = schema.Resolve(in.Capsule, in.Props)
	}

	var b strings.Builder
	b.Grow(len(impl.CodeTemplate))
	for _, p := range prog.parts {
		if p.expr == nil {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(s.eval(p.expr))
	}

	if len(s.missing) > 0 {
		return "", errors.NewUnresolvedPlaceholder(in.InstanceID, capsuleID, string(in.Platform), s.missing)
	}
	return b.String(), nil
}

// Check parses a template without rendering it
func (r *Renderer) Check(source string) error {
	_, err := r.program(source)
	return err
}

func (r *Renderer) program(source string) (*program, error) {
	if cached, ok := r.programs.Load(source); ok {
		return cached.(*program), nil
	}
	prog, err := compile(source)
	if err != nil {
		return nil, err
	}
	r.programs.Store(source, prog)
	return prog, nil
}

// scope evaluates expressions for one render and records unresolved refs
type scope struct {
	in      Input
	props   map[string]interface{}
	missing []string
}

func (s *scope) eval(expr *expression) string {
	if !expr.conditional {
		return format(s.pipeline(expr.value, false))
	}
	if truthy(s.pipeline(expr.value, true)) {
		return format(s.pipeline(expr.then, false))
	}
	return format(s.pipeline(expr.els, false))
}

func (s *scope) pipeline(pl pipeline, condition bool) interface{} {
	var v interface{}
	if pl.literal {
		v = pl.value
	} else {
		var ok bool
		v, ok = s.resolve(pl.value, condition)
		if !ok {
			s.miss(pl.value)
			return nil
		}
	}

	for _, name := range pl.filters {
		v = filters[name](v)
	}
	return v
}

// resolve looks up a reference. In a condition, a declared but unset prop
// resolves to nil instead of failing.
func (s *scope) resolve(ref string, condition bool) (interface{}, bool) {
	if !strings.HasPrefix(ref, "@") {
		if v, ok := s.props[ref]; ok && v != nil {
			return v, true
		}
		if condition && s.in.Capsule != nil {
			if _, declared := s.in.Capsule.Prop(ref); declared {
				return nil, true
			}
		}
		return nil, false
	}

	switch ref {
	case "@id":
		return s.in.InstanceID, true
	case "@name":
		return s.in.Name, s.in.Name != ""
	case "@capsule":
		if s.in.Capsule == nil {
			return nil, false
		}
		return s.in.Capsule.ID, true
	case "@app":
		return s.in.AppName, true
	case "@platform":
		return string(s.in.Platform), true
	case "@children":
		return strings.Join(s.in.Children, ", "), true
	}

	if rest, ok := strings.CutPrefix(ref, "@children."); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n >= len(s.in.Children) {
			return nil, false
		}
		return s.in.Children[n], true
	}
	if token, ok := strings.CutPrefix(ref, "@theme."); ok {
		if v, found := s.in.Theme.Token(token); found {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) miss(ref string) {
	for _, m := range s.missing {
		if m == ref {
			return
		}
	}
	s.missing = append(s.missing, ref)
}
