package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Home greets the signed-in reader.
func Home(displayName, email string) g.Node {
	return h.Div(
		h.Class("home"),
		h.H1(g.Textf("Welcome, %s", displayName)),
		h.P(h.Class("muted"), g.Text(email)),
		h.Form(
			h.Method("post"),
			h.Action(LogoutPath),
			h.Button(h.Type("submit"), h.Class("submit"), g.Text("Logout")),
		),
	)
}
