package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LiteralBinder materializes constant values by parsing "NAME = value"
// assignments out of generated source. Lookup prefers the declared name and
// falls back to its upper-cased variant, since generators typically emit
// SCREAMING_CASE constant names regardless of how the constant was requested.
// Parsing happens in a scratch environment; the shared namespace is untouched.
type LiteralBinder struct{}

func (LiteralBinder) Bind(_ Namespace, source, name string) (Value, error) {
	assignments, err := parseAssignments(source)
	if err != nil {
		return nil, err
	}
	if v, ok := assignments[name]; ok {
		return v, nil
	}
	if v, ok := assignments[strings.ToUpper(name)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotBound, name)
}

var assignmentRe = regexp.MustCompile(`^\s*(?:const\s+|var\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*:?=\s*(.+)$`)

// parseAssignments extracts every "name = literal" line from source.
// Comment and fence lines are skipped; a line that looks like an assignment
// but has an unparseable right-hand side is an error.
func parseAssignments(source string) (map[string]Value, error) {
	env := make(map[string]Value)
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "```") {
			continue
		}
		m := assignmentRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := parseLiteral(m[2])
		if err != nil {
			return nil, fmt.Errorf("parsing value of %s: %w", m[1], err)
		}
		env[m[1]] = v
	}
	if len(env) == 0 {
		return nil, fmt.Errorf("no assignments found in generated source")
	}
	return env, nil
}

// parseLiteral converts a literal expression into a Go value: nil, booleans,
// int64, float64, strings, lists, and string-keyed maps.
func parseLiteral(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}

	switch s {
	case "nil", "null", "None":
		return nil, nil
	case "true", "True":
		return true, nil
	case "false", "False":
		return false, nil
	}

	switch s[0] {
	case '"':
		return strconv.Unquote(s)
	case '\'':
		if len(s) < 2 || s[len(s)-1] != '\'' {
			return nil, fmt.Errorf("unterminated string: %s", s)
		}
		return s[1 : len(s)-1], nil
	case '[':
		return parseList(s)
	case '{':
		return parseMap(s)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported literal: %s", s)
}

func parseList(s string) (Value, error) {
	if s[len(s)-1] != ']' {
		return nil, fmt.Errorf("unterminated list: %s", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []Value{}, nil
	}
	var out []Value
	for _, part := range splitTop(inner, ',') {
		v, err := parseLiteral(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseMap(s string) (Value, error) {
	if s[len(s)-1] != '}' {
		return nil, fmt.Errorf("unterminated map: %s", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	out := make(map[string]Value)
	if inner == "" {
		return out, nil
	}
	for _, part := range splitTop(inner, ',') {
		kv := splitTop(part, ':')
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad map entry: %s", part)
		}
		key, err := parseLiteral(kv[0])
		if err != nil {
			return nil, err
		}
		v, err := parseLiteral(kv[1])
		if err != nil {
			return nil, err
		}
		out[fmt.Sprint(key)] = v
	}
	return out, nil
}

// splitTop splits s on sep at nesting depth zero, respecting brackets and
// string quoting.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote && (quote != '"' || i == 0 || s[i-1] != '\\') {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
