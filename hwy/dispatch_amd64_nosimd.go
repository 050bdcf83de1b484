//go:build amd64 && !goexperiment.simd

package hwy

// archsimdAVX is false without GOEXPERIMENT=simd: there are no archsimd
// kernels in the binary to run.
func archsimdAVX() bool {
	return false
}
