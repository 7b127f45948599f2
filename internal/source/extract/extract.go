// Package extract pulls fenced diagram blocks out of markdown documents and
// routes class diagrams to the engine.
package extract

import "strings"

// DiagramBlock is one class-diagram fence. StartLine is the absolute
// 1-indexed line of the first line inside the fence, so downstream class
// line numbers land on real file lines.
type DiagramBlock struct {
	Content   string
	StartLine int
	EndLine   int
	SpecFile  string
}

// ClassDiagramBlocks scans content for fenced code blocks (backtick or
// tilde fences) and returns those carrying class diagrams: an info string of
// `classDiagram`, or `mermaid` whose body opens with classDiagram.
// Unterminated fences are dropped without disturbing earlier blocks.
func ClassDiagramBlocks(specFile, content string) []DiagramBlock {
	var blocks []DiagramBlock
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		marker, info := fenceOpen(lines[i])
		if marker == "" {
			continue
		}

		start := i + 1
		end := -1
		for j := start; j < len(lines); j++ {
			if fenceClose(lines[j], marker) {
				end = j
				break
			}
		}
		if end < 0 {
			// Unterminated fence swallows the rest of the file.
			break
		}

		if isClassDiagram(info, lines[start:end]) {
			blocks = append(blocks, DiagramBlock{
				Content:   strings.Join(lines[start:end], "\n"),
				StartLine: start + 1,
				EndLine:   end,
				SpecFile:  specFile,
			})
		}
		i = end
	}

	return blocks
}

// fenceOpen reports the fence marker (``` or ~~~, possibly longer) and the
// trimmed info string when line opens a fence.
func fenceOpen(line string) (string, string) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, ch := range []byte{'`', '~'} {
		count := 0
		for count < len(trimmed) && trimmed[count] == ch {
			count++
		}
		if count >= 3 {
			return trimmed[:count], strings.TrimSpace(trimmed[count:])
		}
	}
	return "", ""
}

// fenceClose matches a closing fence: same character, at least as long as
// the opener, nothing but the fence on the line.
func fenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, marker) {
		return false
	}
	return strings.Trim(trimmed, string(marker[0])) == ""
}

func isClassDiagram(info string, body []string) bool {
	info = strings.ToLower(info)
	if info == "classdiagram" {
		return true
	}
	if info != "mermaid" {
		return false
	}
	for _, line := range body {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "classDiagram")
	}
	return false
}
