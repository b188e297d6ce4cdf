package llm

import "strings"

// CleanReply normalizes a model reply before parsing: invalid UTF-8 is
// dropped, line endings become LF, and a code fence wrapping the whole
// reply is removed unless it is the METADATA block.
func CleanReply(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	first, last := strings.TrimSpace(lines[0]), strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(first, "```") || last != "```" {
		return text
	}
	lang := strings.ToUpper(strings.Trim(first, "` "))
	if strings.Contains(lang, "METADATA") || strings.Contains(lang, "METADADOS") {
		return text
	}

	// inner fences must pair up, or the first fence closes before the end
	open := false
	inner := lines[1 : len(lines)-1]
	for _, line := range inner {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "```") {
			continue
		}
		if !open && strings.Trim(line, "`") == "" {
			return text
		}
		open = !open
	}
	if open {
		return text
	}

	return strings.TrimSpace(strings.Join(inner, "\n"))
}

// Preview shortens text for log lines
func Preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
