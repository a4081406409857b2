// Package tomldoc is an order and formatting preserving TOML document
// model. Parsing a document and serializing it back reproduces the
// original bytes; mutations rewrite only the text of the touched fields
// and leave every other byte (comments, whitespace, key order) alone.
//
// The model is deliberately narrow: it understands table headers,
// key-value lines (including values spanning multiple physical lines)
// and single-line inline tables, which is exactly the surface the
// manifest rewriting engine mutates. Anything else round-trips as raw
// text and is not editable.
package tomldoc

import (
	"fmt"
	"slices"
	"strings"
)

type node interface {
	render(b *strings.Builder)
}

// raw is a line the model preserves verbatim: blanks, comments, and any
// shape it does not edit.
type raw struct {
	text string
}

func (r *raw) render(b *strings.Builder) { b.WriteString(r.text) }

// header is a `[table]` or `[[table]]` line.
type header struct {
	text string
	path []string
}

func (h *header) render(b *strings.Builder) { b.WriteString(h.text) }

// KeyValue is one `key = value` assignment. The value may span multiple
// physical lines for arrays.
type KeyValue struct {
	name       string
	dotted     bool
	keyRaw     string // text before '='
	valPrefix  string // whitespace between '=' and the value
	valText    string // balanced value text, possibly with embedded newlines
	suffix     string // trailing whitespace/comment on the final line
	terminator string
	inline     *InlineTable
}

func (kv *KeyValue) render(b *strings.Builder) {
	b.WriteString(kv.keyRaw)
	b.WriteByte('=')
	b.WriteString(kv.valPrefix)
	if kv.inline != nil && kv.inline.dirty {
		kv.inline.render(b)
	} else {
		b.WriteString(kv.valText)
	}
	b.WriteString(kv.suffix)
	b.WriteString(kv.terminator)
}

// Key returns the unquoted key of this assignment.
func (kv *KeyValue) Key() string { return kv.name }

// Inline returns the value as an inline table, or nil if the value is
// not a single-line inline table. Dotted keys are never eligible.
func (kv *KeyValue) Inline() *InlineTable {
	if kv.dotted {
		return nil
	}
	if kv.inline != nil {
		return kv.inline
	}
	text := kv.valText
	if !strings.HasPrefix(text, "{") || strings.ContainsAny(text, "\r\n") {
		return nil
	}
	table, err := parseInline(text)
	if err != nil {
		return nil
	}
	kv.inline = table
	return table
}

// SetValue replaces the whole value with the given raw TOML text,
// keeping the key and any trailing comment.
func (kv *KeyValue) SetValue(rawValue string) {
	kv.valPrefix = " "
	kv.valText = rawValue
	kv.inline = nil
}

// AsString returns the value as an unquoted string scalar.
func (kv *KeyValue) AsString() (string, bool) {
	s := strings.TrimSpace(kv.valText)
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return "", false
	}
	return unquote(s), true
}

// AsBool returns the value as a boolean scalar.
func (kv *KeyValue) AsBool() (bool, bool) {
	switch strings.TrimSpace(kv.valText) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Strings extracts every string element of an array value, ignoring
// comments and nesting depth.
func (kv *KeyValue) Strings() []string {
	var out []string
	text := kv.valText
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		return nil
	}
	for _, line := range strings.Split(text, "\n") {
		i := 0
		for i < len(line) {
			switch c := line[i]; c {
			case '#':
				i = len(line)
			case '"', '\'':
				start := i
				i++
				for i < len(line) {
					if line[i] == '\\' && c == '"' {
						i += 2
						continue
					}
					if line[i] == c {
						break
					}
					i++
				}
				if i < len(line) {
					out = append(out, unquote(line[start:i+1]))
				}
				i++
			default:
				i++
			}
		}
	}
	return out
}

// Entry is a key-value assignment viewed together with the path of the
// table that contains it.
type Entry struct {
	TablePath []string
	KV        *KeyValue
}

// Document is a parsed TOML file.
type Document struct {
	nodes []node
}

// ParseError describes a document the model could not represent.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse builds a Document from raw file content.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	lines := splitLines(string(data))
	for i := 0; i < len(lines); i++ {
		text, term := lines[i].text, lines[i].term
		trimmed := strings.TrimSpace(text)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			doc.nodes = append(doc.nodes, &raw{text: text + term})
		case strings.HasPrefix(trimmed, "["):
			path, err := parseHeader(trimmed)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Msg: err.Error()}
			}
			doc.nodes = append(doc.nodes, &header{text: text + term, path: path})
		default:
			keyRaw, rest, ok := splitKey(text)
			if !ok {
				return nil, &ParseError{Line: i + 1, Msg: "expected key-value or table header"}
			}
			kv, consumed, err := parseKeyValue(keyRaw, rest, lines[i:])
			if err != nil {
				return nil, &ParseError{Line: i + 1, Msg: err.Error()}
			}
			doc.nodes = append(doc.nodes, kv)
			i += consumed - 1
		}
	}
	return doc, nil
}

type physLine struct {
	text string
	term string
}

func splitLines(s string) []physLine {
	var out []physLine
	for len(s) > 0 {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			out = append(out, physLine{text: s})
			break
		}
		text, term := s[:idx], "\n"
		if strings.HasSuffix(text, "\r") {
			text, term = text[:len(text)-1], "\r\n"
		}
		out = append(out, physLine{text: text, term: term})
		s = s[idx+1:]
	}
	return out
}

func parseHeader(trimmed string) ([]string, error) {
	inner := strings.TrimPrefix(trimmed, "[")
	double := strings.HasPrefix(inner, "[")
	inner = strings.TrimPrefix(inner, "[")
	end := -1
	var quote byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
		} else if c == ']' {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("unterminated table header")
	}
	tail := inner[end+1:]
	if double {
		if !strings.HasPrefix(tail, "]") {
			return nil, fmt.Errorf("unterminated array table header")
		}
		tail = tail[1:]
	}
	if tail = strings.TrimSpace(tail); tail != "" && !strings.HasPrefix(tail, "#") {
		return nil, fmt.Errorf("unexpected text after table header")
	}
	return parseHeaderPath(inner[:end])
}

// parseKeyValue scans a value starting on lines[0] and spanning as many
// physical lines as needed. consumed is the number of lines used.
func parseKeyValue(keyRaw, rest string, lines []physLine) (*KeyValue, int, error) {
	name, dotted := keyName(keyRaw)
	if name == "" {
		return nil, 0, fmt.Errorf("empty key")
	}
	scanner := &valueScanner{}
	var val strings.Builder
	current := rest
	for n := 0; ; n++ {
		if n == len(lines) {
			return nil, 0, fmt.Errorf("unterminated value for key %q", name)
		}
		if n > 0 {
			current = lines[n].text
		}
		end, done := scanner.consume(current)
		if !done && end == len(current) && n+1 < len(lines) {
			val.WriteString(current)
			val.WriteString(lines[n].term)
			continue
		}
		if !done {
			return nil, 0, fmt.Errorf("unterminated value for key %q", name)
		}
		val.WriteString(current[:end])
		kv := &KeyValue{
			name:       name,
			dotted:     dotted,
			keyRaw:     keyRaw,
			valText:    val.String(),
			suffix:     current[end:],
			terminator: lines[n].term,
		}
		kv.valText, kv.valPrefix = splitValuePrefix(kv.valText)
		return kv, n + 1, nil
	}
}

func splitValuePrefix(val string) (text, prefix string) {
	i := 0
	for i < len(val) && (val[i] == ' ' || val[i] == '\t') {
		i++
	}
	return val[i:], val[:i]
}

// Bytes serializes the document. A document with no mutations
// reproduces its input byte for byte.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, n := range d.nodes {
		n.render(&b)
	}
	return []byte(b.String())
}

// Entries returns every key-value assignment in tables whose path is
// accepted by the filter. A nil filter accepts every table, including
// the root.
func (d *Document) Entries(filter func(path []string) bool) []Entry {
	var (
		out     []Entry
		current []string
	)
	for _, n := range d.nodes {
		switch v := n.(type) {
		case *header:
			current = v.path
		case *KeyValue:
			if filter == nil || filter(current) {
				out = append(out, Entry{TablePath: current, KV: v})
			}
		}
	}
	return out
}

// Get finds the assignment for key in the table at path. The root table
// is addressed with an empty path.
func (d *Document) Get(path []string, key string) (*KeyValue, bool) {
	var current []string
	for _, n := range d.nodes {
		switch v := n.(type) {
		case *header:
			current = v.path
		case *KeyValue:
			if v.name == key && !v.dotted && slices.Equal(current, path) {
				return v, true
			}
		}
	}
	return nil, false
}

// HasTable reports whether a header with exactly the given path exists.
func (d *Document) HasTable(path []string) bool {
	for _, n := range d.nodes {
		if h, ok := n.(*header); ok && slices.Equal(h.path, path) {
			return true
		}
	}
	return false
}

// EnsureTable appends a `[path]` header if no such table exists yet.
// The root table always exists.
func (d *Document) EnsureTable(path []string) {
	if len(path) == 0 || d.HasTable(path) {
		return
	}
	segments := make([]string, 0, len(path))
	for _, seg := range path {
		segments = append(segments, renderKey(seg))
	}
	if len(d.nodes) > 0 {
		d.nodes = append(d.nodes, &raw{text: "\n"})
	}
	d.nodes = append(d.nodes, &header{
		text: fmt.Sprintf("[%s]\n", strings.Join(segments, ".")),
		path: append([]string(nil), path...),
	})
}

// Set replaces the value of key in the table at path, or appends the
// assignment at the end of that table. The table is created if missing.
func (d *Document) Set(path []string, key string, rawValue string) {
	if kv, ok := d.Get(path, key); ok {
		kv.SetValue(rawValue)
		return
	}
	d.EnsureTable(path)
	kv := &KeyValue{
		name:       key,
		keyRaw:     renderKey(key) + " ",
		valPrefix:  " ",
		valText:    rawValue,
		terminator: "\n",
	}
	idx := d.tableEnd(path)
	d.nodes = append(d.nodes[:idx], append([]node{kv}, d.nodes[idx:]...)...)
}

// tableEnd returns the insertion index just after the last assignment
// of the table at path.
func (d *Document) tableEnd(path []string) int {
	end := 0
	inside := len(path) == 0
	for i, n := range d.nodes {
		switch v := n.(type) {
		case *header:
			inside = slices.Equal(v.path, path)
			if inside {
				end = i + 1
			}
		case *KeyValue:
			if inside {
				end = i + 1
			}
		}
	}
	return end
}
