// # internal/engine/grammar/members.go
package grammar

import "strings"

// splitVisibility strips a leading visibility symbol from a member line.
// Default is public.
func splitVisibility(line string) (string, string) {
	if line == "" {
		return VisibilityPublic, line
	}
	switch line[0] {
	case '+':
		return VisibilityPublic, strings.TrimSpace(line[1:])
	case '-':
		return VisibilityPrivate, strings.TrimSpace(line[1:])
	case '#':
		return VisibilityProtected, strings.TrimSpace(line[1:])
	case '~':
		// A tilde opens a generic list only after an identifier, so at
		// position zero it can only mean package visibility.
		return VisibilityPackage, strings.TrimSpace(line[1:])
	}
	return VisibilityPublic, line
}

// parseMethodLine parses `+name(params) ret` member lines, including
// `returnType name(params)` order and trailing $ (static) / * (abstract)
// markers.
func parseMethodLine(line string, typeParams []TypeParam) (ParsedMethod, bool) {
	visibility, rest := splitVisibility(line)

	open := strings.IndexByte(rest, '(')
	close := strings.LastIndexByte(rest, ')')
	if open < 0 || close < open {
		return ParsedMethod{}, false
	}

	method := ParsedMethod{Visibility: visibility}

	head := strings.TrimSpace(rest[:open])
	if head == "" {
		return ParsedMethod{}, false
	}
	returnBefore := ""
	if fields := strings.Fields(head); len(fields) > 1 {
		// `void run()` order: everything before the final token is the
		// return type.
		method.Name = fields[len(fields)-1]
		returnBefore = strings.Join(fields[:len(fields)-1], " ")
	} else {
		method.Name = head
	}
	if !isIdentifier(method.Name) {
		return ParsedMethod{}, false
	}

	tail := strings.TrimSpace(rest[close+1:])
	for {
		switch {
		case strings.HasSuffix(tail, "$"):
			method.IsStatic = true
			tail = strings.TrimSpace(strings.TrimSuffix(tail, "$"))
		case strings.HasSuffix(tail, "*"):
			method.IsAbstract = true
			tail = strings.TrimSpace(strings.TrimSuffix(tail, "*"))
		default:
			if tail != "" {
				method.ReturnType = NormalizeGenerics(tail)
			} else if returnBefore != "" {
				method.ReturnType = NormalizeGenerics(returnBefore)
			}
			method.Parameters = parseParameters(rest[open+1:close], typeParams)
			return method, true
		}
	}
}

func parseParameters(list string, typeParams []TypeParam) []Parameter {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	parts := splitTopLevel(list, ',')
	params := make([]Parameter, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params = append(params, parseParameter(part, typeParams))
	}
	return params
}

func parseParameter(raw string, typeParams []TypeParam) Parameter {
	var param Parameter

	if eq := strings.IndexByte(raw, '='); eq >= 0 {
		param.DefaultValue = strings.TrimSpace(raw[eq+1:])
		raw = strings.TrimSpace(raw[:eq])
	}

	if colon := strings.IndexByte(raw, ':'); colon >= 0 {
		param.Name = strings.TrimSpace(raw[:colon])
		param.Type = NormalizeGenerics(strings.TrimSpace(raw[colon+1:]))
	} else if fields := strings.Fields(raw); len(fields) > 1 {
		param.Type = NormalizeGenerics(strings.Join(fields[:len(fields)-1], " "))
		param.Name = fields[len(fields)-1]
	} else {
		param.Name = raw
	}

	if strings.HasSuffix(param.Name, "?") {
		param.Optional = true
		param.Name = strings.TrimSuffix(param.Name, "?")
	}

	// A bare declared type variable is a generic parameter, not a concrete
	// type reference.
	candidate := param.Type
	if candidate == "" {
		candidate = param.Name
	}
	for _, tp := range typeParams {
		if candidate == tp.Name {
			param.IsGeneric = true
			param.TypeVar = tp.Name
			if param.Type == "" {
				param.Type = tp.Name
			}
			break
		}
	}

	return param
}

// parsePropertyLine parses `+type name`, `+name: type` and bare identifier
// member lines. A single bare identifier is returned as an enum value
// candidate rather than a property.
func parsePropertyLine(line string) (ParsedProperty, string, bool) {
	visibility, rest := splitVisibility(line)
	if rest == "" {
		return ParsedProperty{}, "", false
	}

	prop := ParsedProperty{Visibility: visibility}
	if strings.HasSuffix(rest, "$") {
		prop.IsStatic = true
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "$"))
	}

	if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		prop.Name = strings.TrimSpace(rest[:colon])
		prop.Type = NormalizeGenerics(strings.TrimSpace(rest[colon+1:]))
		if !isIdentifier(prop.Name) {
			return ParsedProperty{}, "", false
		}
		return prop, "", true
	}

	fields := strings.Fields(rest)
	switch len(fields) {
	case 1:
		if !isIdentifier(fields[0]) {
			return ParsedProperty{}, "", false
		}
		return ParsedProperty{}, fields[0], true
	default:
		prop.Type = NormalizeGenerics(strings.Join(fields[:len(fields)-1], " "))
		prop.Name = fields[len(fields)-1]
		if !isIdentifier(prop.Name) {
			return ParsedProperty{}, "", false
		}
		return prop, "", true
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentChar(r) {
			return false
		}
	}
	return true
}
