package pages

import (
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/form"
	"github.com/nfrund/bookreader/internal/screen"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const (
	LoginPath      = "/auth/login"
	ToggleModePath = "/auth/mode"
	FieldPathBase  = "/auth/fields/"
	LogoutPath     = "/auth/logout"
)

// FieldView is the render-ready state of one input.
type FieldView struct {
	Name      string
	Label     string
	Type      string
	Value     string
	Error     string
	ShowError bool
}

// LoginView is the render-ready state of the login screen.
type LoginView struct {
	Mode        string
	SignUp      bool
	SubmitLabel string
	ToggleLabel string
	CanSubmit   bool
	Email       FieldView
	Password    FieldView
}

// NewLoginView captures l for rendering. Call it from the loop that owns l.
func NewLoginView(l *screen.Login) LoginView {
	return LoginView{
		Mode:        l.Mode.String(),
		SignUp:      l.Mode == auth.SignUp,
		SubmitLabel: l.SubmitLabel(),
		ToggleLabel: l.ToggleLabel(),
		CanSubmit:   l.CanSubmit(),
		Email:       fieldView(string(screen.FieldEmail), "Email", "email", l.Email, true),
		Password:    fieldView(string(screen.FieldPassword), "Password", "password", l.Password, false),
	}
}

func fieldView(name, label, inputType string, f *form.Field, echoValue bool) FieldView {
	v := FieldView{Name: name, Label: label, Type: inputType}
	if echoValue {
		v.Value = f.Value()
	}
	v.Error, v.ShowError = f.ErrorMessage()
	return v
}

// Login renders the whole login screen.
func Login(v LoginView) g.Node {
	return h.Div(
		h.Class("login"),
		h.Div(h.Class("splash-logo"), Logo()),
		LoginPanel(v),
	)
}

// LoginPanel is the part of the login screen swapped when the mode changes.
func LoginPanel(v LoginView) g.Node {
	return h.Div(
		h.ID("login-panel"),
		g.If(v.SignUp, h.P(h.Class("create-info"), g.Text(screen.CreateAccountInfo))),
		h.Form(
			h.ID("login-form"),
			h.Method("post"),
			h.Action(LoginPath),
			h.Input(h.Type("hidden"), h.Name("mode"), h.Value(v.Mode)),
			FieldInput(v.Email),
			FieldInput(v.Password),
			SubmitButton(v, false),
		),
		h.Form(
			h.Class("toggle"),
			h.Method("post"),
			h.Action(ToggleModePath),
			hx.Post(ToggleModePath),
			hx.Target("#login-panel"),
			hx.Swap("outerHTML"),
			h.Span(g.Text(screen.NewUserPrompt)),
			h.Button(h.Type("submit"), h.Class("toggle-link"), g.Text(v.ToggleLabel)),
		),
	)
}

// FieldInput renders a labelled input that reports focus, blur and edits.
func FieldInput(f FieldView) g.Node {
	autocomplete := "email"
	if f.Type == "password" {
		autocomplete = "current-password"
	}
	return h.Div(
		h.Class("field"),
		h.Label(h.For(f.Name), g.Text(f.Label)),
		h.Input(
			h.ID(f.Name),
			h.Name(f.Name),
			h.Type(f.Type),
			h.Value(f.Value),
			h.AutoComplete(autocomplete),
			hx.Post(FieldPathBase+f.Name),
			hx.Trigger("focus, blur, input changed delay:300ms"),
			hx.Target("#"+f.Name+"-error"),
			hx.Swap("outerHTML"),
			g.Attr("hx-vals", `js:{"event": event.type}`),
		),
		FieldError(f),
	)
}

// FieldError renders the message slot under an input.
func FieldError(f FieldView) g.Node {
	return h.Div(
		h.ID(f.Name+"-error"),
		h.Class("field-error"),
		g.If(f.ShowError, g.Text(f.Error)),
	)
}

// SubmitButton is disabled until both fields are valid. With oob set it
// replaces the button already on the page.
func SubmitButton(v LoginView, oob bool) g.Node {
	return h.Button(
		h.ID("submit"),
		h.Type("submit"),
		h.Class("submit"),
		g.If(!v.CanSubmit, h.Disabled()),
		g.If(oob, hx.SwapOOB("true")),
		g.Text(v.SubmitLabel),
	)
}

// FieldUpdate is the htmx response to a field event: the field's message and
// a refreshed submit button.
func FieldUpdate(f FieldView, v LoginView) g.Node {
	return g.Group{FieldError(f), SubmitButton(v, true)}
}
