// # internal/engine/grammar/extractor.go
package grammar

import (
	"regexp"
	"strings"
)

var (
	stereotypeRe = regexp.MustCompile(`^<<\s*([A-Za-z_]\w*)\s*>>$`)
	addressRe    = regexp.MustCompile(`^%%\s*@address\s+(\S+)\s*$`)
	typeRe       = regexp.MustCompile(`^%%\s*@type\s+(\S+)\s*$`)
)

// Extract parses one class-diagram block into classes, relations,
// namespaces and notes. offset is the absolute 1-indexed line number of the
// first line of content, so reported class lines match the enclosing file.
//
// Extraction never fails: malformed declarations degrade to partial results
// and do not disturb structurally valid siblings.
func Extract(content string, offset int) ExtractionResult {
	var result ExtractionResult
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
		case strings.HasPrefix(line, "classDiagram"):
		case strings.HasPrefix(line, "direction "):
		case strings.HasPrefix(line, "%%"):
			// Top-level comments carry no annotations.
		case strings.HasPrefix(line, "note"):
			if note, ok := parseNote(line); ok {
				result.Notes = append(result.Notes, note)
			}
		case strings.HasPrefix(line, "namespace "):
			i = parseNamespaceBlock(lines, i, offset, &result)
		case line == "class" || strings.HasPrefix(line, "class "):
			i = parseClassDecl(lines, i, offset, "", &result)
		default:
			if rel, ok := parseRelation(line); ok {
				result.Relations = append(result.Relations, rel)
			}
		}
	}

	return result
}

// parseClassDecl parses a `class Name` declaration starting at lines[i] and
// returns the index of the last consumed line. Declarations it cannot make
// sense of are skipped without aborting the surrounding block.
func parseClassDecl(lines []string, i, offset int, namespace string, result *ExtractionResult) int {
	header := strings.TrimSpace(lines[i])
	header = strings.TrimSpace(strings.TrimPrefix(header, "class"))

	// Body content may share the declaration line: `class A { %% @address p`.
	hasBody := false
	inline := ""
	if brace := strings.IndexByte(header, '{'); brace >= 0 {
		hasBody = true
		inline = strings.TrimSpace(header[brace+1:])
		header = strings.TrimSpace(header[:brace])
	}

	pc := ParsedClass{
		Namespace: namespace,
		StartLine: offset + i,
		EndLine:   offset + i,
	}

	if tilde := strings.IndexByte(header, '~'); tilde >= 0 {
		pc.Name = strings.TrimSpace(header[:tilde])
		inner := strings.TrimSuffix(strings.TrimSpace(header[tilde+1:]), "~")
		pc.TypeParams = splitTypeParams(inner)
		pc.IsGeneric = len(pc.TypeParams) > 0
	} else {
		pc.Name = header
	}

	if !isIdentifier(pc.Name) {
		// Unusable declaration. Still consume its body so sibling
		// declarations parse cleanly.
		if hasBody && !strings.HasSuffix(inline, "}") {
			i = skipBody(lines, i)
		}
		return i
	}

	if hasBody {
		i = parseClassBody(lines, i, offset, inline, &pc)
	}

	pc.Annotations.IsValid = len(pc.Annotations.Errors) == 0
	result.Classes = append(result.Classes, pc)
	return i
}

// parseClassBody consumes body lines until the closing brace, populating
// members, stereotype and annotations. inline is any body content that
// shared the declaration line; a trailing `}` on any line (including a
// member line such as `+run() void }`) closes the body. Returns the index
// of the closing line (or the last line when the body is unterminated).
func parseClassBody(lines []string, i, offset int, inline string, pc *ParsedClass) int {
	seenAddress, seenType := false, false

	consume := func(line string) (closed bool) {
		if strings.HasSuffix(line, "}") {
			closed = true
			line = strings.TrimSpace(strings.TrimSuffix(line, "}"))
		}
		if line == "" {
			return closed
		}

		if m := stereotypeRe.FindStringSubmatch(line); m != nil {
			stereotype := strings.ToLower(m[1])
			if stereotype == "enumeration" {
				stereotype = StereotypeEnum
			}
			pc.Stereotype = stereotype
			return closed
		}

		if strings.HasPrefix(line, "%%") {
			if m := addressRe.FindStringSubmatch(line); m != nil {
				if seenAddress {
					pc.Annotations.Errors = append(pc.Annotations.Errors, "duplicate @address annotation")
				} else {
					pc.Annotations.Address = m[1]
					seenAddress = true
				}
				return closed
			}
			if m := typeRe.FindStringSubmatch(line); m != nil {
				if seenType {
					pc.Annotations.Errors = append(pc.Annotations.Errors, "duplicate @type annotation")
				} else {
					pc.Annotations.EntityType = m[1]
					seenType = true
				}
				return closed
			}
			// Plain comment, discarded.
			return closed
		}

		if strings.ContainsRune(line, '(') {
			if method, ok := parseMethodLine(line, pc.TypeParams); ok {
				pc.Methods = append(pc.Methods, method)
			}
			return closed
		}

		if prop, enumValue, ok := parsePropertyLine(line); ok {
			if enumValue != "" {
				pc.EnumValues = append(pc.EnumValues, enumValue)
			} else {
				pc.Properties = append(pc.Properties, prop)
			}
		}
		return closed
	}

	if consume(inline) {
		pc.EndLine = offset + i
		return i
	}

	for i++; i < len(lines); i++ {
		if consume(strings.TrimSpace(lines[i])) {
			pc.EndLine = offset + i
			return i
		}
	}

	// Unterminated body: report what was parsed up to EOF.
	pc.EndLine = offset + len(lines) - 1
	return len(lines) - 1
}

// parseNamespaceBlock parses `namespace Name { ... }`, back-assigning the
// namespace onto each contained class.
func parseNamespaceBlock(lines []string, i, offset int, result *ExtractionResult) int {
	header := strings.TrimSpace(lines[i])
	header = strings.TrimSpace(strings.TrimPrefix(header, "namespace"))
	header = strings.TrimSpace(strings.TrimSuffix(header, "{"))
	if !isIdentifier(header) {
		return i
	}

	ns := ParsedNamespace{Name: header}
	for i++; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "}" {
			break
		}
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if line == "class" || strings.HasPrefix(line, "class ") {
			before := len(result.Classes)
			i = parseClassDecl(lines, i, offset, ns.Name, result)
			for _, pc := range result.Classes[before:] {
				ns.Classes = append(ns.Classes, pc.Name)
			}
			continue
		}
		if rel, ok := parseRelation(line); ok {
			result.Relations = append(result.Relations, rel)
		}
	}

	result.Namespaces = append(result.Namespaces, ns)
	return i
}

// skipBody consumes a brace-delimited body without interpreting it.
func skipBody(lines []string, i int) int {
	for i++; i < len(lines); i++ {
		if strings.HasSuffix(strings.TrimSpace(lines[i]), "}") {
			return i
		}
	}
	return len(lines) - 1
}
