package poem

import "strings"

// Indonesian discourse markers that open an explanation or preamble line.
var introPrefixes = []string{"judul", "berikut", "tentu", "inilah", "ini"}

// Clean strips the model's leading explanation from raw output. It skips the
// leading run of lines that are blank, mention the title, mention "tema",
// mention the genre, or open with a discourse marker; the first line matching
// none of these ends the skip and every later line is kept verbatim, blank
// lines included, so stanza breaks survive. Trailing blank lines are dropped.
func Clean(raw, title, genre string) string {
	// Title and genre match case-insensitively, so a capitalized "Puisi" in
	// the preamble is skipped even when the form sent lowercase.
	titleLower := strings.ToLower(title)
	genreLower := strings.ToLower(genre)

	var kept []string
	skipping := true
	for _, line := range strings.Split(raw, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if skipping && (l == "" ||
			strings.Contains(l, titleLower) ||
			strings.Contains(l, "tema") ||
			strings.Contains(l, genreLower) ||
			hasIntroPrefix(l)) {
			continue
		}
		skipping = false
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}

	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	return strings.Join(kept, "\n")
}

func hasIntroPrefix(l string) bool {
	for _, prefix := range introPrefixes {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
