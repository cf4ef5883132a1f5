// Package roff assembles troff man pages using the classic man macro set.
package roff

import (
	"fmt"
	"strings"
)

// Builder accumulates man-page markup line by line. The zero value is ready
// to use.
type Builder struct {
	b strings.Builder
}

// Title writes the .TH header carrying the page name and section number.
func (d *Builder) Title(name string, section int) {
	fmt.Fprintf(&d.b, ".TH %q \"%d\"\n", name, section)
}

// Section starts a .SH section.
func (d *Builder) Section(heading string) {
	fmt.Fprintf(&d.b, ".SH %s\n", heading)
}

// Text writes one escaped text line.
func (d *Builder) Text(line string) {
	d.b.WriteString(Escape(line))
	d.b.WriteString("\n")
}

// Raw writes a line verbatim, for pre-escaped text and inline escapes like
// \(em.
func (d *Builder) Raw(line string) {
	d.b.WriteString(line)
	d.b.WriteString("\n")
}

// Break forces a line break between statements.
func (d *Builder) Break() {
	d.b.WriteString(".br\n")
}

// Literal opens a no-fill block that preserves line structure and spacing.
func (d *Builder) Literal() {
	d.b.WriteString(".nf\n")
}

// LiteralEnd closes a no-fill block.
func (d *Builder) LiteralEnd() {
	d.b.WriteString(".fi\n")
}

// Indent opens a relative-indent block.
func (d *Builder) Indent() {
	d.b.WriteString(".RS 4\n")
}

// Outdent closes the innermost relative-indent block.
func (d *Builder) Outdent() {
	d.b.WriteString(".RE\n")
}

// Reference writes a man-page cross reference like "name(3)", with a
// trailing comma when more references follow.
func (d *Builder) Reference(name string, section int, last bool) {
	suffix := ","
	if last {
		suffix = ""
	}
	fmt.Fprintf(&d.b, ".BR %s (%d)%s\n", Escape(name), section, suffix)
}

func (d *Builder) String() string {
	return d.b.String()
}

// Escape protects text destined for a troff text line: backslashes become
// the \e escape and lines that would otherwise start a control request get
// a zero-width \& prefix.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\e`)
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		s = `\&` + s
	}
	return s
}
