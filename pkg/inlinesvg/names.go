package inlinesvg

import (
	"sort"
	"strings"
)

// AnimationNamePrefix marks animation names that carry an SVG name.
const AnimationNamePrefix = "svg_"

// Sentinel names with fixed, fetch-free rendering.
const (
	// NameNull removes the element from the tree.
	NameNull = "NULL"
	// NameNone renders an empty, attribute-free, completed element.
	NameNone = "NONE"
	// NameHidden renders like NameNone.
	NameHidden = "HIDDEN"
)

// StyleID is the id of the injected keyframes style element.
const StyleID = "svg-style-keyframes"

// AnimationEvent is an animation-start signal delivered to an element.
type AnimationEvent struct {
	// Name is the CSS animation name, such as "svg_ArrowIcon".
	Name string
}

// NameFromAnimation extracts the SVG name from an animation name. It returns
// false for animations that do not belong to inlinesvg.
func NameFromAnimation(animationName string) (string, bool) {
	name, ok := strings.CutPrefix(animationName, AnimationNamePrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// IsEmptyName reports whether name renders as an empty, present element.
func IsEmptyName(name string) bool {
	return name == NameNone || name == NameHidden
}

// Keyframes returns the style sheet declaring one empty @keyframes rule per
// sentinel and per name. Browsers only fire animationstart for animation
// names whose keyframes exist, so every name needs a rule.
func Keyframes(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	all := append([]string{NameNull, NameNone, NameHidden}, sorted...)
	rules := make([]string, len(all))
	for i, name := range all {
		rules[i] = "@keyframes " + AnimationNamePrefix + name + " {}"
	}
	return strings.Join(rules, "\n")
}
