// Package uniquify rewrites in-document references of an SVG subtree so that
// several copies of the same markup can live in one document.
package uniquify

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/inlinesvg/pkg/dom"
)

var urlRe = regexp.MustCompile(`url\((.*?)\)`)

// replaceable lists the attributes whose values receive the hash suffix.
var replaceable = []string{"id", "href", "xlink:href", "xlink:role", "xlink:arcrole"}

// Options controls a rewrite pass.
type Options struct {
	// Enabled turns the pass on. A disabled pass leaves the tree untouched.
	Enabled bool
	// Hash is appended to rewritten values as "__<hash>".
	Hash string
	// BaseURL prefixes rewritten url() targets. Reserved; callers pass "".
	BaseURL string
}

// Apply rewrites every element below root (root itself is left alone).
//
// The first url(...) reference in any attribute value gets the suffix, and
// so does each allowlisted attribute, except href/xlink:href values without a
// "#" fragment: those point at external resources, not in-document anchors.
//
// Apply is not idempotent; run it once per freshly parsed subtree.
func Apply(root *html.Node, opts Options) {
	if !opts.Enabled || root == nil {
		return
	}
	suffix := "__" + opts.Hash
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		visit(c, opts.BaseURL, suffix)
	}
}

func visit(n *html.Node, baseURL, suffix string) {
	if n.Type != html.ElementNode {
		return
	}
	if len(n.Attr) > 0 {
		for i := range n.Attr {
			a := &n.Attr[i]
			if m := urlRe.FindStringSubmatchIndex(a.Val); m != nil && m[3] > m[2] {
				target := a.Val[m[2]:m[3]]
				a.Val = a.Val[:m[0]] + "url(" + baseURL + target + suffix + ")" + a.Val[m[1]:]
			}
		}
		for _, name := range replaceable {
			for i := range n.Attr {
				a := &n.Attr[i]
				if dom.AttrName(*a) != name {
					continue
				}
				if !isDataValue(name, a.Val) {
					a.Val += suffix
				}
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, baseURL, suffix)
	}
}

func isDataValue(name, value string) bool {
	if name != "href" && name != "xlink:href" {
		return false
	}
	return value != "" && !strings.Contains(value, "#")
}

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// RandomHash returns an n-character alphanumeric string.
func RandomHash(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	size := big.NewInt(int64(len(charset)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			sb.WriteByte(charset[i%len(charset)])
			continue
		}
		sb.WriteByte(charset[idx.Int64()])
	}
	return sb.String()
}
