package app

import (
	"github.com/nfrund/bookreader/internal/module"
	"github.com/nfrund/bookreader/internal/modules/account"
	"github.com/nfrund/bookreader/internal/modules/reader"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules() []module.Module {
	return []module.Module{
		account.New(),
		reader.New(),
	}
}
