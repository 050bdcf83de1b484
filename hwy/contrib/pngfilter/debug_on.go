//go:build pngfilter_debug

package pngfilter

// Build with -tags pngfilter_debug to validate row shapes on every call.
const debugChecks = true
