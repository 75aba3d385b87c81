package app

import "errors"

// Sentinel errors for App's lifecycle and registry misuse, grounded on
// vango/pkg/vango/errors.go's sentinel-error style (errors.New, a
// "kinetic:" prefix in place of vango's "vango:").
var (
	// ErrAlreadyMounted is returned by Mount when called on an App that
	// already has a mounted root.
	ErrAlreadyMounted = errors.New("kinetic: app already mounted")

	// ErrNotMounted is returned by operations that require a mounted
	// root (Unmount) when called before Mount.
	ErrNotMounted = errors.New("kinetic: app not mounted")

	// ErrDirectiveExists is returned by Directive when name is already
	// registered.
	ErrDirectiveExists = errors.New("kinetic: directive already registered")

	// ErrNilPlugin is returned by Use when passed a nil Plugin.
	ErrNilPlugin = errors.New("kinetic: nil plugin")
)
