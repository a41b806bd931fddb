package parallel

import "runtime"

import "github.com/klauspost/cpuid/v2"

// Threads resolves the number of worker goroutines to use. A positive n is
// returned unchanged, otherwise the number of logical cores is detected.
func Threads(n int) int {
	if n > 0 {
		return n
	}
	if cpuid.CPU.LogicalCores > 0 {
		return cpuid.CPU.LogicalCores
	}
	return runtime.NumCPU()
}
