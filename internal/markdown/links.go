package markdown

import (
	"regexp"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// LinkTargets parses markdown documentation and returns the unique link
// destinations in document order. Rustdoc intra-doc links keep their target
// text as the destination (e.g. "Value::as_str"), which callers resolve
// against the item's link table.
//
// Shortcut references like [Value] have no destination and are plain text to
// CommonMark, so they are collected by pattern after the parsed links.
func LinkTargets(src string) []string {
	if src == "" {
		return nil
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	seen := make(map[string]bool)
	var targets []string

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if dest != "" && !seen[dest] {
				seen[dest] = true
				targets = append(targets, dest)
			}
		}
		return ast.GoToNext
	})

	// The link table keys intra-doc links by their written text, which may
	// or may not carry backticks, so offer both forms. Inline links were
	// already collected above; unbracket them so they don't match twice.
	remainder := mdLinkRe.ReplaceAllString(src, "$1")
	for _, m := range shortLinkRe.FindAllStringSubmatch(remainder, -1) {
		for _, target := range []string{m[1], strings.Trim(m[1], "`")} {
			if target != "" && !seen[target] {
				seen[target] = true
				targets = append(targets, target)
			}
		}
	}

	return targets
}

// mdLinkRe matches markdown links like [Text](url).
var mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

// shortLinkRe matches rustdoc shorthand links like [`Value`] outside inline code.
var shortLinkRe = regexp.MustCompile(`\[([^\]\[]+)\]`)

// Plain strips markdown link syntax and backticks, leaving plain text
// suitable for a one-line whatis summary.
func Plain(s string) string {
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = shortLinkRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}

// FirstLine returns the first non-empty line of a documentation block as
// plain text.
func FirstLine(docs string) string {
	for _, line := range strings.Split(docs, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return Plain(trimmed)
		}
	}
	return ""
}
