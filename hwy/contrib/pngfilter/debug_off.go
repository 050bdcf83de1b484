//go:build !pngfilter_debug

package pngfilter

const debugChecks = false
