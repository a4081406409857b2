package tomldoc

import (
	"fmt"
	"strings"
)

// scanState tracks the string context of the value scanner.
type scanState int

const (
	scanNone scanState = iota
	scanBasic
	scanLiteral
	scanMLBasic
	scanMLLiteral
)

// valueScanner consumes a TOML value that may span multiple physical
// lines (arrays) and reports when it is balanced. Braces and brackets
// inside strings or comments do not count towards nesting.
type valueScanner struct {
	depth   int
	state   scanState
	escaped bool
	seen    bool
}

// consume scans one physical line (without terminator). It returns the
// byte offset at which the value ends and whether the value is complete.
// If done is false the value continues on the next line.
func (v *valueScanner) consume(line string) (end int, done bool) {
	i := 0
	for i < len(line) {
		c := line[i]
		switch v.state {
		case scanBasic:
			if v.escaped {
				v.escaped = false
			} else if c == '\\' {
				v.escaped = true
			} else if c == '"' {
				v.state = scanNone
			}
		case scanLiteral:
			if c == '\'' {
				v.state = scanNone
			}
		case scanMLBasic:
			if v.escaped {
				v.escaped = false
			} else if c == '\\' {
				v.escaped = true
			} else if strings.HasPrefix(line[i:], `"""`) {
				v.state = scanNone
				i += 2
			}
		case scanMLLiteral:
			if strings.HasPrefix(line[i:], "'''") {
				v.state = scanNone
				i += 2
			}
		default:
			switch c {
			case '"':
				v.seen = true
				if strings.HasPrefix(line[i:], `"""`) {
					v.state = scanMLBasic
					i += 2
				} else {
					v.state = scanBasic
				}
			case '\'':
				v.seen = true
				if strings.HasPrefix(line[i:], "'''") {
					v.state = scanMLLiteral
					i += 2
				} else {
					v.state = scanLiteral
				}
			case '{', '[':
				v.seen = true
				v.depth++
			case '}', ']':
				v.depth--
			case '#':
				if v.depth == 0 {
					return i, v.seen
				}
				// Comment inside a multi-line array; the rest of the
				// physical line stays part of the raw value.
				return len(line), false
			case ' ', '\t':
			default:
				v.seen = true
			}
			if v.depth == 0 && v.seen && (c == '}' || c == ']') {
				return i + 1, true
			}
		}
		i++
	}
	if v.state == scanBasic || v.state == scanLiteral {
		// Single-line strings cannot span lines.
		return len(line), false
	}
	return len(line), v.depth == 0 && v.state == scanNone && v.seen
}

// splitKey splits a key-value line at the top-level '=' sign. Quoted keys
// may contain '='.
func splitKey(line string) (keyRaw, rest string, ok bool) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '=':
			key := strings.TrimSpace(line[:i])
			if key == "" {
				return "", "", false
			}
			return line[:i], line[i+1:], true
		case '#', '[':
			return "", "", false
		}
	}
	return "", "", false
}

// keyName returns the unquoted first segment of a (possibly dotted) key
// and whether further segments follow.
func keyName(keyRaw string) (name string, dotted bool) {
	s := strings.TrimSpace(keyRaw)
	if s == "" {
		return "", false
	}
	if s[0] == '"' || s[0] == '\'' {
		quote := s[0]
		for i := 1; i < len(s); i++ {
			if s[i] == '\\' && quote == '"' {
				i++
				continue
			}
			if s[i] == quote {
				rest := strings.TrimSpace(s[i+1:])
				return unquote(s[:i+1]), strings.HasPrefix(rest, ".")
			}
		}
		return unquote(s), false
	}
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return strings.TrimSpace(s[:idx]), true
	}
	return s, false
}

// parseHeaderPath parses the dotted path between table header brackets.
func parseHeaderPath(inner string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		quote    byte
		hasSeg   bool
	)
	flush := func() error {
		seg := strings.TrimSpace(current.String())
		if seg == "" {
			return fmt.Errorf("empty table key segment")
		}
		segments = append(segments, unquote(seg))
		current.Reset()
		hasSeg = false
		return nil
	}
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if quote != 0 {
			current.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			hasSeg = true
			current.WriteByte(c)
		case '.':
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if c != ' ' && c != '\t' {
				hasSeg = true
			}
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quoted key")
	}
	if !hasSeg {
		return nil, fmt.Errorf("empty table header")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segments, nil
}

// unquote strips TOML string quoting from a key or scalar if present.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	var b strings.Builder
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

// Quote renders a string as a TOML basic string.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// bareKey reports whether a key can be written without quoting.
func bareKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// renderKey quotes a key segment only when needed.
func renderKey(s string) string {
	if bareKey(s) {
		return s
	}
	return Quote(s)
}
