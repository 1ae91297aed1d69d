package jsast

import "strings"

// splitTopLevel splits s on sep at bracket/brace/paren depth 0, ignoring
// separators inside string/template literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	inStr := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr != 0 {
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			inStr = c
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// isIdentChar reports whether c can appear in a JS identifier (ASCII
// subset; this scanner doesn't need to support unicode identifiers).
func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// firstIdentifier returns the first identifier token in s.
func firstIdentifier(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && !isIdentStart(s[i]) {
		i++
	}
	if i >= len(s) {
		return ""
	}
	j := i
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	return s[i:j]
}

// extractBindingNames parses a binding pattern (an identifier, or an
// object/array destructuring pattern, optionally followed by `= default`)
// and returns every name it binds.
func extractBindingNames(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	pattern = stripTrailingDefault(pattern)
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	switch pattern[0] {
	case '{':
		inner := strings.TrimSuffix(strings.TrimPrefix(pattern, "{"), "}")
		var names []string
		for _, prop := range splitTopLevel(inner, ',') {
			prop = strings.TrimSpace(prop)
			if prop == "" {
				continue
			}
			if strings.HasPrefix(prop, "...") {
				names = append(names, firstIdentifier(prop[3:]))
				continue
			}
			if idx := topLevelIndex(prop, ':'); idx >= 0 {
				names = append(names, extractBindingNames(prop[idx+1:])...)
				continue
			}
			names = append(names, firstIdentifier(prop))
		}
		return names
	case '[':
		inner := strings.TrimSuffix(strings.TrimPrefix(pattern, "["), "]")
		var names []string
		for _, el := range splitTopLevel(inner, ',') {
			el = strings.TrimSpace(el)
			if el == "" {
				continue
			}
			if strings.HasPrefix(el, "...") {
				names = append(names, extractBindingNames(el[3:])...)
				continue
			}
			names = append(names, extractBindingNames(el)...)
		}
		return names
	default:
		name := firstIdentifier(pattern)
		if name == "" {
			return nil
		}
		return []string{name}
	}
}

// stripTrailingDefault removes a top-level `= <expr>` suffix, e.g.
// "a = 1" -> "a", "{a} = {}" -> "{a}".
func stripTrailingDefault(s string) string {
	if idx := topLevelIndex(s, '='); idx >= 0 {
		// Avoid matching `==`/`=>` by checking the right neighbor.
		if idx+1 >= len(s) || (s[idx+1] != '=' && s[idx+1] != '>') {
			return s[:idx]
		}
	}
	return s
}

// topLevelIndex returns the index of the first occurrence of c at
// bracket/string depth 0, or -1.
func topLevelIndex(s string, c byte) int {
	depth := 0
	inStr := byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inStr != 0 {
			if ch == '\\' {
				i++
			} else if ch == inStr {
				inStr = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			inStr = ch
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if ch == c && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// slug converts a file id into the identifier-safe stem jsast and the
// lowering pass use to build fresh local names (§4.7: "derive from
// the file stem (non-alphanumeric -> _)").
func slug(id string) string {
	base := id
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	var b strings.Builder
	for i := 0; i < len(base); i++ {
		c := base[i]
		if isIdentChar(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
