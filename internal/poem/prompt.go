package poem

import "fmt"

// Prompt builds the generation instruction for a genre and theme. The model
// is told to emit content only; Clean strips whatever preamble slips
// through anyway.
func Prompt(genre, title string) string {
	return fmt.Sprintf(
		"Buatkan %s berbahasa Indonesia dengan tema: '%s'.\n"+
			"Tampilkan hanya isi %s tanpa judul, tanpa penjelasan, tanpa kata pengantar, dan tanpa format markdown.\n"+
			"Jangan ulangi judul atau tema dalam hasil.\n",
		genre, title, genre,
	)
}
