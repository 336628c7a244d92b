package pages

import (
	"fmt"
	"time"

	"github.com/nfrund/bookreader/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// SplashNextPath is polled once the splash delay has passed.
const SplashNextPath = "/splash/next"

// Tagline is shown under the logo on the splash screen.
const Tagline = `"Read.Change.Yourself"`

// Logo renders the application name.
func Logo() g.Node {
	return h.Span(h.Class("logo"), g.Text(layouts.AppName))
}

// Splash shows the logo and asks for the next screen after delay.
func Splash(delay time.Duration) g.Node {
	return h.Div(
		h.Class("splash"),
		hx.Get(SplashNextPath),
		hx.Trigger(fmt.Sprintf("load delay:%dms", delay.Milliseconds())),
		Logo(),
		h.Span(h.Class("tagline"), g.Text(Tagline)),
		h.NoScript(h.A(h.Href(SplashNextPath), g.Text("Continue"))),
	)
}
