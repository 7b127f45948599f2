// # internal/engine/grammar/relations.go
package grammar

import "strings"

// relationTokens maps arrow tokens to relationship kinds. Longest tokens
// first so "--" never shadows "<|--" or "-->".
var relationTokens = []struct {
	token string
	kind  RelationType
}{
	{"<|--", RelationInheritance},
	{"..|>", RelationRealization},
	{"()--", RelationLollipop},
	{"-->", RelationAssociation},
	{"..>", RelationDependency},
	{"*--", RelationComposition},
	{"o--", RelationAggregation},
	{"--", RelationLink},
	{"..", RelationDashed},
}

// parseRelation matches `A <arrow> B`, optionally with quoted cardinalities
// on either side and a trailing `: label`.
func parseRelation(line string) (ParsedRelation, bool) {
	for _, entry := range relationTokens {
		idx := strings.Index(line, entry.token)
		if idx < 0 {
			continue
		}

		rel := ParsedRelation{Type: entry.kind}

		left := strings.TrimSpace(line[:idx])
		rel.SourceClass, rel.SourceCardinality = splitCardinality(left, false)

		right := strings.TrimSpace(line[idx+len(entry.token):])
		if colon := labelIndex(right); colon >= 0 {
			rel.Label = strings.TrimSpace(right[colon+1:])
			right = strings.TrimSpace(right[:colon])
		}
		rel.TargetClass, rel.TargetCardinality = splitCardinality(right, true)

		if !isIdentifier(rel.SourceClass) || !isIdentifier(rel.TargetClass) {
			return ParsedRelation{}, false
		}
		return rel, true
	}
	return ParsedRelation{}, false
}

// splitCardinality separates a class token from an adjacent quoted
// cardinality: `A "1"` on the left side, `"many" B` on the right.
func splitCardinality(s string, cardinalityFirst bool) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if cardinalityFirst {
		if strings.HasPrefix(s, `"`) {
			if end := strings.Index(s[1:], `"`); end >= 0 {
				return strings.TrimSpace(s[end+2:]), s[1 : end+1]
			}
		}
		return s, ""
	}
	if strings.HasSuffix(s, `"`) {
		if start := strings.LastIndex(s[:len(s)-1], `"`); start >= 0 {
			return strings.TrimSpace(s[:start]), s[start+1 : len(s)-1]
		}
	}
	return s, ""
}

// labelIndex finds the label colon, skipping colons inside quotes.
func labelIndex(s string) int {
	inQuote := false
	for i, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case ':':
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// parseNote matches `note for X "text"` and `note "text"` lines.
func parseNote(line string) (ParsedNote, bool) {
	rest, ok := strings.CutPrefix(line, "note")
	if !ok {
		return ParsedNote{}, false
	}
	rest = strings.TrimSpace(rest)

	note := ParsedNote{}
	if after, ok := strings.CutPrefix(rest, "for "); ok {
		after = strings.TrimSpace(after)
		space := strings.IndexByte(after, ' ')
		if space < 0 {
			return ParsedNote{}, false
		}
		note.ForClass = strings.TrimSpace(after[:space])
		rest = strings.TrimSpace(after[space+1:])
	}

	if len(rest) >= 2 && strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) {
		note.Text = rest[1 : len(rest)-1]
		return note, true
	}
	return ParsedNote{}, false
}
