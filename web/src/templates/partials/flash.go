package partials

import (
	"github.com/nfrund/bookreader/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Flash renders pending flash messages, or nothing.
func Flash(data view.FlashData) g.Node {
	if data.Empty() {
		return nil
	}
	return h.Div(h.ID("flash"),
		g.Map(data.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-success"), g.Attr("role", "status"), g.Text(msg))
		}),
		g.Map(data.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-error"), g.Attr("role", "alert"), g.Text(msg))
		}),
	)
}
