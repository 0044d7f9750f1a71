package pf

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// helpWidth is the column the [type] tag of an option is aligned to.
const helpWidth = 80

type flagHelp struct {
	Short string
	Long  string
	Text  string
	Type  string
}

// helpText renders option help the way CLI hosts print it: the flag line,
// the description wrapped to helpWidth, and a right-aligned type tag.
func helpText(flags []flagHelp) string {
	var b strings.Builder
	for _, f := range flags {
		b.WriteString("-" + f.Short + ", --" + f.Long + "\n")
		tag := "[" + f.Type + "]"
		lines := wrapWords(f.Text, helpWidth)
		last := lines[len(lines)-1]
		gap := helpWidth - runewidth.StringWidth(last) - runewidth.StringWidth(tag)
		if gap < 1 {
			lines = append(lines, strings.Repeat(" ", helpWidth-runewidth.StringWidth(tag))+tag)
		} else {
			lines[len(lines)-1] = last + strings.Repeat(" ", gap) + tag
		}
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

// wrapWords breaks s on spaces into lines no wider than width display
// columns. A single word wider than width gets a line of its own.
func wrapWords(s string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}
