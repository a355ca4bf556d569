package report

import "strings"

// breakAfter holds the runes a line may end on: Japanese particles,
// CJK and ASCII punctuation, and space.
var breakAfter = map[rune]bool{
	'は': true, 'が': true, 'を': true, 'に': true, 'で': true,
	'と': true, 'の': true, 'へ': true, 'も': true, 'や': true,
	'、': true, '。': true, '，': true, '．': true, '！': true,
	'？': true, '」': true, '）': true,
	':': true, ';': true, ',': true, '.': true, ' ': true,
}

// Wrap splits text into lines of at most width runes. Existing newlines are
// kept, blank lines included. A long line breaks after the last break rune
// in the final width/2 runes of the window, or hard at width when there is none.
func Wrap(text string, width int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if width <= 0 {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine([]rune(line), width)...)
	}
	return out
}

func wrapLine(r []rune, width int) []string {
	if len(r) <= width {
		return []string{string(r)}
	}

	var out []string
	for len(r) > width {
		cut := width
		for i := width - 1; i >= width-width/2; i-- {
			if breakAfter[r[i]] {
				cut = i + 1
				break
			}
		}
		out = append(out, strings.TrimRight(string(r[:cut]), " "))
		r = trimLeadingSpace(r[cut:])
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

func trimLeadingSpace(r []rune) []rune {
	for len(r) > 0 && r[0] == ' ' {
		r = r[1:]
	}
	return r
}
