package composition

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/capsulec/internal/shared/codec"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// Parser converts composition documents into AppComposition values
type Parser struct {
	sizes *utils.SizeValidator
}

// NewParser creates a parser accepting documents up to maxBytes
// (zero or negative selects the default limit)
func NewParser(maxBytes int) *Parser {
	return &Parser{sizes: utils.NewSizeValidator(maxBytes)}
}

// ParseFile reads and parses a composition file; the format is taken
// from the extension
func (p *Parser) ParseFile(path string) (*types.AppComposition, error) {
	format, ok := codec.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported composition file type", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read composition: %w", err)
	}
	return p.Parse(data, format)
}

// Parse converts a JSON, YAML, TOML or HCL document to an AppComposition.
// Structural problems are collected and returned together as a
// *errors.ValidationError.
func (p *Parser) Parse(content []byte, format codec.Format) (*types.AppComposition, error) {
	if err := p.sizes.ValidateSize(content); err != nil {
		return nil, &errors.ValidationError{Issues: []*errors.Issue{errors.NewInvalidComposition(err.Error())}}
	}

	generic, err := codec.Decode(content, format)
	if err != nil {
		return nil, &errors.ValidationError{Issues: []*errors.Issue{errors.NewInvalidComposition(err.Error())}}
	}

	doc, ok := generic.(map[string]interface{})
	if !ok {
		return nil, &errors.ValidationError{Issues: []*errors.Issue{
			errors.NewInvalidComposition("composition must be an object"),
		}}
	}

	e := &expander{}
	app := &types.AppComposition{}

	app.AppName, _ = doc["appName"].(string)
	app.Theme = e.expandTheme(doc["theme"])
	app.Targets = e.expandTargets(doc["targets"])

	switch root := doc["root"].(type) {
	case []interface{}:
		app.Root = e.expandInstances(root, "root")
	case nil:
		app.Root = []types.CapsuleInstance{}
	default:
		e.fail("root must be a list of instances")
	}

	if len(e.issues) > 0 {
		return nil, &errors.ValidationError{Issues: e.issues}
	}
	return app, nil
}

// expander accumulates structural issues while walking a decoded document
type expander struct {
	issues []*errors.Issue
}

func (e *expander) fail(format string, args ...interface{}) {
	e.issues = append(e.issues, errors.NewInvalidComposition(fmt.Sprintf(format, args...)))
}

// expandTheme flattens token maps; scalar tokens are stringified
func (e *expander) expandTheme(raw interface{}) types.Theme {
	theme := types.Theme{}
	if raw == nil {
		return theme
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		e.fail("theme must be an object")
		return theme
	}
	theme.Colors = e.expandTokens(m["colors"], "theme.colors")
	theme.Typography = e.expandTokens(m["typography"], "theme.typography")
	return theme
}

func (e *expander) expandTokens(raw interface{}, path string) map[string]string {
	if raw == nil {
		return nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		e.fail("%s must be an object", path)
		return nil
	}

	tokens := make(map[string]string, len(m))
	for name, value := range m {
		switch v := value.(type) {
		case string:
			tokens[name] = v
		case float64:
			tokens[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			tokens[name] = strconv.FormatBool(v)
		default:
			e.fail("%s.%s must be a scalar", path, name)
		}
	}
	return tokens
}

// expandTargets parses the target list; ids are lowercased and de-duplicated.
// Unknown ids are kept for the orchestrator to report.
func (e *expander) expandTargets(raw interface{}) []types.Platform {
	if raw == nil {
		return nil
	}

	var names []interface{}
	switch v := raw.(type) {
	case []interface{}:
		names = v
	case string:
		// Single target shorthand: targets: web
		names = []interface{}{v}
	default:
		e.fail("targets must be a list of platform ids")
		return nil
	}

	seen := make(map[types.Platform]bool, len(names))
	targets := make([]types.Platform, 0, len(names))
	for i, n := range names {
		s, ok := n.(string)
		if !ok || strings.TrimSpace(s) == "" {
			e.fail("targets[%d] must be a platform id", i)
			continue
		}
		p, known := types.ParsePlatform(s)
		if !known {
			p = types.Platform(strings.ToLower(strings.TrimSpace(s)))
		}
		if !seen[p] {
			seen[p] = true
			targets = append(targets, p)
		}
	}
	return targets
}

func (e *expander) expandInstances(list []interface{}, path string) []types.CapsuleInstance {
	result := make([]types.CapsuleInstance, 0, len(list))
	for i, item := range list {
		if inst, ok := e.expandInstance(item, fmt.Sprintf("%s[%d]", path, i)); ok {
			result = append(result, inst)
		}
	}
	return result
}

// expandInstance accepts the explicit form
// {"capsule": "button", "id": "buy", "props": {...}, "children": [...]},
// the shorthand {"button#buy": {...props, "children": [...]}} and the
// bare string "button#buy".
func (e *expander) expandInstance(raw interface{}, path string) (types.CapsuleInstance, bool) {
	switch v := raw.(type) {
	case string:
		capsuleID, instanceID := splitKey(v)
		if capsuleID == "" {
			e.fail("%s: empty capsule reference", path)
			return types.CapsuleInstance{}, false
		}
		return types.CapsuleInstance{CapsuleID: capsuleID, InstanceID: instanceID}, true

	case map[string]interface{}:
		if _, explicit := v["capsule"]; explicit {
			return e.expandExplicit(v, path)
		}
		if _, explicit := v["capsuleId"]; explicit {
			return e.expandExplicit(v, path)
		}
		if len(v) != 1 {
			e.fail("%s: shorthand instance must have exactly one \"capsule#id\" key", path)
			return types.CapsuleInstance{}, false
		}
		for key, body := range v {
			return e.expandShorthand(key, body, path)
		}
	}

	e.fail("%s: instance must be an object or a \"capsule#id\" string", path)
	return types.CapsuleInstance{}, false
}

func (e *expander) expandExplicit(v map[string]interface{}, path string) (types.CapsuleInstance, bool) {
	inst := types.CapsuleInstance{}
	ok := true

	for _, key := range sortedKeys(v) {
		value := v[key]
		switch key {
		case "capsule", "capsuleId":
			inst.CapsuleID, _ = value.(string)
		case "id", "instanceId":
			if value == nil {
				continue
			}
			s, isString := value.(string)
			if !isString {
				e.fail("%s.%s must be a string", path, key)
				ok = false
			}
			inst.InstanceID = s
		case "props":
			if value == nil {
				continue
			}
			props, isMap := value.(map[string]interface{})
			if !isMap {
				e.fail("%s.props must be an object", path)
				ok = false
			}
			inst.Props = props
		case "children":
			children, isList := value.([]interface{})
			if value != nil && !isList {
				e.fail("%s.children must be a list", path)
				ok = false
			}
			inst.Children = e.expandInstances(children, path+".children")
		default:
			e.fail("%s: unexpected field %q", path, key)
			ok = false
		}
	}

	if inst.CapsuleID == "" {
		e.fail("%s: capsule is required", path)
		ok = false
	}
	return inst, ok
}

func (e *expander) expandShorthand(key string, body interface{}, path string) (types.CapsuleInstance, bool) {
	capsuleID, instanceID := splitKey(key)
	if capsuleID == "" {
		e.fail("%s: empty capsule reference in %q", path, key)
		return types.CapsuleInstance{}, false
	}
	inst := types.CapsuleInstance{CapsuleID: capsuleID, InstanceID: instanceID}

	if body == nil {
		return inst, true
	}
	fields, isMap := body.(map[string]interface{})
	if !isMap {
		e.fail("%s: body of %q must be an object", path, key)
		return inst, false
	}

	props := make(map[string]interface{}, len(fields))
	for k, value := range fields {
		if k != "children" {
			props[k] = value
			continue
		}
		children, isList := value.([]interface{})
		if value != nil && !isList {
			e.fail("%s.children must be a list", path)
			return inst, false
		}
		inst.Children = e.expandInstances(children, path+".children")
	}
	if len(props) > 0 {
		inst.Props = props
	}
	return inst, true
}

// splitKey parses "capsule#id" or "capsule"
func splitKey(key string) (capsuleID, instanceID string) {
	capsuleID, instanceID, _ = strings.Cut(strings.TrimSpace(key), "#")
	return strings.TrimSpace(capsuleID), strings.TrimSpace(instanceID)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
