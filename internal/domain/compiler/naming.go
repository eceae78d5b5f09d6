package compiler

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// ComponentName derives a component identifier from a capsule and instance
// id: "button" + "buy" -> ButtonBuy. When the instance id already starts
// with the capsule id ("button-1") the instance id alone is used (Button1).
func ComponentName(capsuleID, instanceID string) string {
	capsule := utils.Pascal(capsuleID)
	instance := utils.Pascal(instanceID)

	name := capsule + instance
	if capsule != "" && strings.HasPrefix(instance, capsule) {
		name = instance
	}
	return identifier(name, "Component")
}

// identifier makes s usable as a type name in every target language
func identifier(s, fallback string) string {
	if s == "" {
		return fallback
	}
	if r := []rune(s)[0]; !unicode.IsLetter(r) {
		return fallback + s
	}
	return s
}

// namer hands out identifiers unique within one compile
type namer struct {
	used map[string]bool
}

func newNamer(reserved ...string) *namer {
	n := &namer{used: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

// name returns the first free identifier of base, base2, base3, ...
func (n *namer) name(base string) string {
	candidate := base
	for i := 2; n.used[candidate]; i++ {
		candidate = base + strconv.Itoa(i)
	}
	n.used[candidate] = true
	return candidate
}
