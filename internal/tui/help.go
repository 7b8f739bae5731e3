package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// helpMarkdown is the body of the ? overlay.
const helpMarkdown = `# virtuallist

Browse reservations. Only the rows near the viewport are rendered in full;
rows further away show as placeholders until the list settles.

## Keys

| key | action |
|-----|--------|
| ↑/k ↓/j | move the cursor |
| pgup/b pgdn/f | move one screen |
| home/g end/G | first / last row |
| space | select the row |
| s / o | cycle sort field / flip order |
| ? | close this help |
| q | quit |

## Status line

- **range** is the inclusive window of rendered rows.
- **state** is %s: *ready* while windowing, *unavailable* when every row is rendered.
- **runs / dropped** count recomputations and the scroll signals merged into them.
`

// renderHelp renders the help overlay for the given width. Rendering errors
// fall back to the raw markdown.
func renderHelp(width int, state string) string {
	md := fmt.Sprintf(helpMarkdown, state)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
