//go:build !amd64 && !arm64

package hwy

func init() {
	// Other architectures (386, wasm, riscv64, ...) have no vector kernels
	// and always run the scalar implementations.
	currentFeatures = Features{}
}
