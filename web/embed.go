package web

import "embed"

// FS contains the static assets served under /static.
//
//go:embed static
var FS embed.FS
