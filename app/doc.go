// Package app wires the reactive, widget, scheduler and renderer
// packages into a single mountable root, grounded on vango's top-level
// App type (vango/app.go's New(cfg Config)/Mount/Use/Config shape) but
// stripped of everything HTTP/SSR-specific — no router, no server, no
// static file serving, all named Non-goals. What remains is the part of
// vango.App that is genuinely host-agnostic: configuration defaulting,
// structured logging, plugin/directive registries, and routing errors
// up through a scope's error handler.
package app
