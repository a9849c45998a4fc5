// Package pyscan is the fast, lenient, always-available parsing backend: a
// physical-line scanner that recognizes column-zero def / async def / class
// headers and column-zero decorator lines. It tracks bracket depth and
// string literals so headers and decorator argument lists may span lines,
// but performs no real parsing beyond that — nested declarations stay inside
// their enclosing block and are never reported.
package pyscan

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/pysym/internal/ports"
)

// Backend implements ports.Backend with no state; it is safe for reuse.
type Backend struct{}

// New returns the scanner backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the canonical backend identifier.
func (b *Backend) Name() string {
	return ports.BackendPyscan
}

// Parse scans src for top-level statements. The only syntax failures this
// backend can detect are headers and decorators whose brackets never close
// or whose header never reaches a colon at depth zero; everything else
// parses leniently.
func (b *Backend) Parse(src []byte) ([]ports.TopLevelNode, *ports.ParseFailure) {
	lines := splitLines(src)
	var nodes []ports.TopLevelNode
	var pending []ports.Pos

	i := 0
	for i < len(lines) {
		text := lines[i]
		switch {
		case isBlank(text) || isComment(text):
			// Blank and comment lines may sit between decorators and their
			// target, so pending decorators survive them.
			i++

		case strings.HasPrefix(text, "@"):
			// Marker-exclusive position: column one past the @.
			pending = append(pending, ports.Pos{Line: i + 1, Col: 1})
			end, ok := scanLogicalLine(lines, i, false)
			if !ok {
				return nil, &ports.ParseFailure{
					Kind:   ports.FailureSyntax,
					Detail: fmt.Sprintf("unterminated decorator starting at line %d", i+1),
				}
			}
			i = end + 1

		default:
			kind, name, isDecl := declHeader(text)
			if !isDecl {
				pending = nil
				end, _ := scanLogicalLine(lines, i, false)
				nodes = append(nodes, ports.TopLevelNode{
					Kind: "statement",
					Span: &ports.Span{
						Start: ports.Pos{Line: i + 1, Col: 0},
						End:   ports.Pos{Line: end + 1, Col: len(lines[end])},
					},
				})
				i = end + 1
				continue
			}

			headerEnd, ok := scanLogicalLine(lines, i, true)
			if !ok {
				return nil, &ports.ParseFailure{
					Kind:   ports.FailureSyntax,
					Detail: fmt.Sprintf("malformed %s header at line %d", kind, i+1),
				}
			}

			// The block runs over subsequent indented lines; blank and
			// comment lines neither end nor extend it.
			last := headerEnd
			j := headerEnd + 1
			for j < len(lines) {
				t := lines[j]
				if isBlank(t) || isComment(t) {
					j++
					continue
				}
				if !isIndented(t) {
					break
				}
				last = j
				j++
			}

			nodes = append(nodes, ports.TopLevelNode{
				Kind: kind,
				Name: name,
				Span: &ports.Span{
					Start: ports.Pos{Line: i + 1, Col: 0},
					End:   ports.Pos{Line: last + 1, Col: len(lines[last])},
				},
				Decorators: pending,
			})
			pending = nil
			i = j
		}
	}
	return nodes, nil
}

// scanLogicalLine consumes one logical line starting at lines[start]:
// a physical line plus any continuations opened by unbalanced brackets or a
// trailing backslash. With needColon set (declaration headers), the line is
// complete only once a colon appears at bracket depth zero. Returns the last
// physical line consumed and whether the logical line completed before EOF.
//
// String literals are tracked within a physical line; an unterminated quote
// closes at end of line. This misreads triple-quoted strings spanning lines,
// which is acceptable for the lenient backend.
func scanLogicalLine(lines []string, start int, needColon bool) (int, bool) {
	depth := 0
	for i := start; i < len(lines); i++ {
		text := lines[i]
		var quote byte
		continued := false
		for j := 0; j < len(text); j++ {
			c := text[j]
			if quote != 0 {
				switch c {
				case '\\':
					j++
				case quote:
					quote = 0
				}
				continue
			}
			switch c {
			case '\'', '"':
				quote = c
			case '#':
				j = len(text)
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				if depth > 0 {
					depth--
				}
			case ':':
				if needColon && depth == 0 {
					return i, true
				}
			case '\\':
				if j == len(text)-1 {
					continued = true
				}
			}
		}
		if depth == 0 && !continued {
			// A header whose logical line ends without its colon is
			// malformed; an ordinary statement is simply done.
			return i, !needColon
		}
	}
	return len(lines) - 1, false
}

// declHeader recognizes a column-zero declaration header and returns its
// kind and name. The name may be empty for a malformed header; the extractor
// drops nameless nodes.
func declHeader(text string) (kind, name string, ok bool) {
	if rest, found := cutKeyword(text, "def"); found {
		return ports.KindFunction, identPrefix(rest), true
	}
	if rest, found := cutKeyword(text, "async"); found {
		if inner, foundDef := cutKeyword(strings.TrimLeft(rest, " \t"), "def"); foundDef {
			return ports.KindFunction, identPrefix(inner), true
		}
		return "", "", false
	}
	if rest, found := cutKeyword(text, "class"); found {
		return ports.KindClass, identPrefix(rest), true
	}
	return "", "", false
}

// cutKeyword strips kw from the front of text when followed by whitespace.
func cutKeyword(text, kw string) (string, bool) {
	if !strings.HasPrefix(text, kw) {
		return "", false
	}
	rest := text[len(kw):]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return rest, true
}

// identPrefix returns the identifier at the start of s, after whitespace.
func identPrefix(s string) string {
	s = strings.TrimLeft(s, " \t")
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r == '_' || unicode.IsLetter(r) || (n > 0 && unicode.IsDigit(r)) {
			n += size
			continue
		}
		break
	}
	return s[:n]
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func isComment(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t"), "#")
}

func isIndented(text string) bool {
	return text != "" && (text[0] == ' ' || text[0] == '\t')
}

// splitLines splits src into physical lines without their terminators,
// breaking on \n, \r\n, and bare \r.
func splitLines(src []byte) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			lines = append(lines, string(src[start:i]))
			start = i + 1
		case '\r':
			lines = append(lines, string(src[start:i]))
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, string(src[start:]))
	}
	return lines
}
