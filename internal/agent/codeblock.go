package agent

import "strings"

// ExtractCodeBlock pulls the code out of a model response. It scans line by
// line, toggling an in-fence flag on lines whose trimmed form starts with the
// fence marker, and collects only lines inside a fence. Fence marker lines
// themselves are excluded. Responses with no fence at all fall back to the
// trimmed full text. Zero, one, or multiple fences are all tolerated.
func ExtractCodeBlock(response string) string {
	var codeLines []string
	inCodeBlock := false

	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			codeLines = append(codeLines, line)
		}
	}

	if len(codeLines) == 0 {
		return strings.TrimSpace(response)
	}
	return strings.Join(codeLines, "\n")
}
