package tui

import (
	"fmt"

	"github.com/dm/pcpulse/internal/format"
)

// renderFooter renders the key binding help footer at full terminal width.
// When app.showHelp is true, shows all key bindings; otherwise a brief hint.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	app.help.Width = width
	app.help.ShowAll = app.showHelp

	text := app.help.View(keys)
	if app.showHelp {
		text += StyleDim.Render(fmt.Sprintf("  ·  %s samples  ·  %s", format.FormatNumber(int64(app.samples)), app.platform))
	}
	return StyleDim.Width(width).Render(text)
}
