package grammar

import "strings"

// NormalizeGenerics rewrites mermaid tilde generics to angle brackets:
// Foo~T~ -> Foo<T>, Promise~Result~T~~ -> Promise<Result<T>>. A tilde opens
// a parameter list when it follows an identifier character and the next
// character can start one; otherwise it closes the innermost open list.
// Unbalanced tildes are kept literally so malformed input stays inspectable.
func NormalizeGenerics(s string) string {
	if !strings.ContainsRune(s, '~') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	runes := []rune(s)
	for i, r := range runes {
		if r != '~' {
			b.WriteRune(r)
			continue
		}
		prevIdent := i > 0 && isIdentChar(runes[i-1])
		nextOpens := i+1 < len(runes) && isIdentStart(runes[i+1])
		if prevIdent && nextOpens {
			b.WriteRune('<')
			depth++
			continue
		}
		if depth > 0 {
			b.WriteRune('>')
			depth--
			continue
		}
		b.WriteRune('~')
	}
	return b.String()
}

// splitTypeParams parses the contents of a declaration's tilde list,
// e.g. "T extends Base, U" -> [{T Base} {U}].
func splitTypeParams(list string) []TypeParam {
	parts := splitTopLevel(list, ',')
	params := make([]TypeParam, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, extends := part, ""
		if idx := strings.Index(part, " extends "); idx >= 0 {
			name = strings.TrimSpace(part[:idx])
			extends = NormalizeGenerics(strings.TrimSpace(part[idx+len(" extends "):]))
		}
		params = append(params, TypeParam{Name: name, Extends: extends})
	}
	return params
}

// splitTopLevel splits on sep, ignoring separators nested inside tilde or
// angle-bracket generic lists.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	tilde := 0
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '~':
			prevIdent := i > 0 && isIdentChar(runes[i-1])
			nextOpens := i+1 < len(runes) && isIdentStart(runes[i+1])
			if prevIdent && nextOpens {
				tilde++
			} else if tilde > 0 {
				tilde--
			}
		}
		if r == sep && depth == 0 && tilde == 0 {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	parts = append(parts, current.String())
	return parts
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
