package app

import (
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/diagnostics"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/pubsub"
	"github.com/nfrund/bookreader/internal/rendering"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/samber/do/v2"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Config        config.Provider
	Identity      auth.IdentityProvider
	Authenticator domain.Authenticator
	Documents     auth.DocumentStore
	Publisher     pubsub.Publisher
	Subscriber    pubsub.Subscriber
	Loop          *uiloop.Loop
	Recorder      *diagnostics.Recorder
	Renderer      rendering.Renderer
}

// NewInjector provides every core service to a new root injector. Modules
// add their own services on top in Register.
func NewInjector(deps Dependencies) do.Injector {
	i := do.New()
	do.ProvideValue(i, deps.Config)
	do.ProvideValue(i, deps.Identity)
	do.ProvideValue(i, deps.Authenticator)
	do.ProvideValue(i, deps.Documents)
	do.ProvideValue(i, deps.Publisher)
	do.ProvideValue(i, deps.Subscriber)
	do.ProvideValue(i, deps.Loop)
	do.ProvideValue(i, deps.Recorder)
	do.ProvideValue(i, deps.Renderer)
	return i
}
