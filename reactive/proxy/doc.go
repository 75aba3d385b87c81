// Package proxy provides deep reactive wrapping over plain Go values:
// structs, maps and slices that report field/element reads and writes
// to the reactive package's dependency graph without the caller needing
// to reach for ValueRef/PropertyRef by hand.
//
// Go has no property-interception hook (no Proxy, no __get__), so this
// package follows the same idiom vango/pkg/vango/signal_map.go and
// signal_slice.go use for their collection helpers: reflect over the
// wrapped container and drive explicit get/set accessors through it,
// rather than attempt true transparent interception.
package proxy
