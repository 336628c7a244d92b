package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/nfrund/bookreader/web/src/templates/partials"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the application's HTML document.
func Base(title string, flashes view.FlashData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return c.HTML5(c.HTML5Props{
			Title:    CalculateTitle(title),
			Language: "en",
			Head: []g.Node{
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.Link(h.Rel("stylesheet"), h.Href("/static/css/app.css")),
				h.Script(h.Src(htmxSrc), h.Defer()),
			},
			Body: []g.Node{
				h.Class("reader"),
				partials.Flash(flashes),
				h.Main(h.ID("content"), view.AdaptTemplToGomponent(ctx, content)),
			},
		}).Render(w)
	})
}
