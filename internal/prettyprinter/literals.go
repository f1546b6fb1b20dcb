package prettyprinter

import (
	"fmt"
	"golang.org/x/text/unicode/norm"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// QuoteString renders a string literal. The text is NFC-normalized first, so
// canonically equivalent strings render the same.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		if r == '"' {
			b.WriteString(`\"`)
			continue
		}
		writeEscaped(&b, r)
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteChar renders a character literal.
func QuoteChar(r rune) string {
	var b strings.Builder
	b.WriteByte('\'')
	if r == '\'' {
		b.WriteString(`\'`)
	} else {
		writeEscaped(&b, r)
	}
	b.WriteByte('\'')
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\\':
		b.WriteString(`\\`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	default:
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(b, `\u{%04X}`, r)
		}
	}
}

func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FormatFloat renders a float literal that always reads back as a float:
// 1 becomes "1.0". Values without a literal form are written as divisions.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0 / 0)"
	case math.IsInf(f, 1):
		return "(1 / 0)"
	case math.IsInf(f, -1):
		return "(-1 / 0)"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
