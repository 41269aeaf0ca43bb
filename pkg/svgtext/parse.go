// Package svgtext extracts the root attributes and inner markup from raw SVG
// documents.
//
// The parser is a slice heuristic rather than an XML parser: it looks for the
// first "<svg " and the last "</svg>" and works on the text between them.
// Namespaced roots and nested <svg> elements are not interpreted. Input is
// expected to be a well-formed icon asset; malformed input never panics but
// yields whatever the slice bounds produce.
package svgtext

import (
	"regexp"
	"strings"
)

const (
	startMarker = "<svg "
	endMarker   = "</svg>"
)

var attrRe = regexp.MustCompile(`(?i)([\d:a-z-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Attribute is a single name/value pair from the root <svg> tag.
type Attribute struct {
	Name  string
	Value string
}

// Entry is a parsed SVG document.
type Entry struct {
	// Attributes are the root attributes in source order. Duplicates are kept;
	// applying them in order lets the later one win.
	Attributes []Attribute
	// Content is the markup between the root's opening and closing tags.
	Content string
}

// AttributeNames returns the attribute names in order.
func (e Entry) AttributeNames() []string {
	names := make([]string, len(e.Attributes))
	for i, a := range e.Attributes {
		names[i] = a.Name
	}
	return names
}

// Parse splits text into root attributes and inner content.
//
//	A<svg attr1="value1" attr2='value2'>B</svg>C -> [attr1 attr2], "B"
func Parse(text string) Entry {
	svg := slice(text, strings.Index(text, startMarker), strings.LastIndex(text, endMarker))
	gt := strings.Index(svg, ">")
	attrText := slice(svg, len(startMarker), gt)
	content := slice(svg, gt+1, len(svg))

	return Entry{
		Attributes: ParseAttributes(attrText),
		Content:    content,
	}
}

// ParseAttributes matches name="value" and name='value' pairs in s.
func ParseAttributes(s string) []Attribute {
	matches := attrRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}
	attrs := make([]Attribute, 0, len(matches))
	for _, m := range matches {
		a := Attribute{Name: s[m[2]:m[3]]}
		if m[4] >= 0 {
			a.Value = s[m[4]:m[5]]
		} else {
			a.Value = s[m[6]:m[7]]
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// slice returns s[start:end] with negative indices counted from the end and
// out-of-range bounds clamped, so a missing marker never panics.
func slice(s string, start, end int) string {
	n := len(s)
	clamp := func(i int) int {
		if i < 0 {
			i += n
			if i < 0 {
				return 0
			}
		}
		if i > n {
			return n
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if start >= end {
		return ""
	}
	return s[start:end]
}
