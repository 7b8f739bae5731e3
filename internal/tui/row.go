package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/virtuallist/internal/dataset"
)

// dateLayout is the display format for reservation dates.
const dateLayout = "2006-01-02"

// renderRow draws a reservation as two lines: who and what, then when and how much.
func renderRow(row dataset.Row, cursor, marked bool) string {
	prefix := "  "
	switch {
	case cursor && marked:
		prefix = "▸✓"
	case cursor:
		prefix = "▸ "
	case marked:
		prefix = " ✓"
	}

	title := fmt.Sprintf("%s #%-6d %-24s %s", prefix, row.ID, row.CustomerName, row.Status)
	detail := fmt.Sprintf("   %s · %s · %s · %s",
		row.Date.Format(dateLayout),
		dataset.PaymentLabel(row.PaymentOption),
		formatPrice(row.Price),
		orDash(row.ManagerName),
	)

	style := lipgloss.NewStyle()
	switch {
	case cursor:
		style = CursorStyle
	case marked:
		style = MarkedStyle
	}
	return style.Render(title) + "\n" + SubtleStyle.Render(detail)
}

func formatPrice(price float64) string {
	return numberPrinter.Sprintf("$%.2f", price)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
