package tomldoc

import (
	"fmt"
	"sort"
	"strings"
)

// InlineTable is a single-line `{ key = value, ... }` value. Items keep
// their original text until touched, so an untouched table renders back
// to its source bytes.
type InlineTable struct {
	items    []*inlineItem
	trailing string // whitespace before the closing brace
	dirty    bool
}

type inlineItem struct {
	prefix string // whitespace before the key
	keyRaw string // key text, possibly quoted
	name   string // unquoted key
	mid    string // whitespace between key and '='
	valRaw string // value text including surrounding whitespace
}

func (it *inlineItem) render(b *strings.Builder) {
	b.WriteString(it.prefix)
	b.WriteString(it.keyRaw)
	b.WriteString(it.mid)
	b.WriteByte('=')
	b.WriteString(it.valRaw)
}

// parseInline parses balanced single-line inline table text.
func parseInline(text string) (*InlineTable, error) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, fmt.Errorf("not an inline table")
	}
	body := text[1 : len(text)-1]
	table := &InlineTable{}
	if strings.TrimSpace(body) == "" {
		table.trailing = body
		return table, nil
	}
	segments, err := splitTopLevel(body, ',')
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		item, err := parseInlineItem(seg)
		if err != nil {
			return nil, err
		}
		table.items = append(table.items, item)
	}
	// Move the whitespace before '}' off the last item so appends land
	// before it.
	last := table.items[len(table.items)-1]
	trimmed := strings.TrimRight(last.valRaw, " \t")
	table.trailing = last.valRaw[len(trimmed):]
	last.valRaw = trimmed
	return table, nil
}

func parseInlineItem(seg string) (*inlineItem, error) {
	keyPart, valPart, ok := splitKey(seg)
	if !ok {
		return nil, fmt.Errorf("inline table item without '='")
	}
	trimmedKey := strings.TrimSpace(keyPart)
	name, dotted := keyName(keyPart)
	if dotted || name == "" {
		return nil, fmt.Errorf("unsupported inline table key %q", trimmedKey)
	}
	start := strings.Index(keyPart, trimmedKey)
	return &inlineItem{
		prefix: keyPart[:start],
		keyRaw: trimmedKey,
		name:   name,
		mid:    keyPart[start+len(trimmedKey):],
		valRaw: valPart,
	}, nil
}

// splitTopLevel splits on sep outside strings, brackets and braces.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		default:
			if c == sep && depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("unbalanced inline table")
	}
	return append(out, s[start:]), nil
}

func (t *InlineTable) render(b *strings.Builder) {
	b.WriteByte('{')
	for i, item := range t.items {
		if i > 0 {
			b.WriteByte(',')
		}
		item.render(b)
	}
	b.WriteString(t.trailing)
	b.WriteByte('}')
}

// Len returns the number of items.
func (t *InlineTable) Len() int { return len(t.items) }

// Keys returns the item keys in order.
func (t *InlineTable) Keys() []string {
	out := make([]string, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item.name)
	}
	return out
}

// Has reports whether key is present.
func (t *InlineTable) Has(key string) bool {
	return t.find(key) != nil
}

func (t *InlineTable) find(key string) *inlineItem {
	for _, item := range t.items {
		if item.name == key {
			return item
		}
	}
	return nil
}

// GetString returns the unquoted string value of key.
func (t *InlineTable) GetString(key string) (string, bool) {
	item := t.find(key)
	if item == nil {
		return "", false
	}
	s := strings.TrimSpace(item.valRaw)
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return "", false
	}
	return unquote(s), true
}

// GetBool returns the boolean value of key.
func (t *InlineTable) GetBool(key string) (bool, bool) {
	item := t.find(key)
	if item == nil {
		return false, false
	}
	switch strings.TrimSpace(item.valRaw) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Set inserts or replaces key with the given raw TOML value. Inserted
// fields carry a single leading and trailing space, matching the common
// `{ key = value }` layout of sibling fields.
func (t *InlineTable) Set(key string, rawValue string) {
	t.dirty = true
	if item := t.find(key); item != nil {
		item.valRaw = " " + rawValue
		return
	}
	if len(t.items) == 0 && t.trailing == "" {
		t.trailing = " "
	}
	t.items = append(t.items, &inlineItem{
		prefix: " ",
		keyRaw: renderKey(key),
		name:   key,
		mid:    " ",
		valRaw: " " + rawValue,
	})
}

// SetString inserts or replaces key with a quoted string value.
func (t *InlineTable) SetString(key string, value string) {
	t.Set(key, Quote(value))
}

// Remove deletes key and reports whether it was present.
func (t *InlineTable) Remove(key string) bool {
	for i, item := range t.items {
		if item.name == key {
			t.items = append(t.items[:i], t.items[i+1:]...)
			t.dirty = true
			return true
		}
	}
	return false
}

// SortKeys stably reorders the items by the given rank function. The
// first item inherits the old first item's prefix so the table keeps
// its opening spacing.
func (t *InlineTable) SortKeys(rank func(key string) int) {
	if len(t.items) < 2 {
		return
	}
	first := t.items[0].prefix
	sort.SliceStable(t.items, func(i, j int) bool {
		return rank(t.items[i].name) < rank(t.items[j].name)
	})
	for _, item := range t.items {
		if item.prefix == "" {
			item.prefix = " "
		}
	}
	t.items[0].prefix = first
	t.dirty = true
}
