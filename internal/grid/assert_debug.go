//go:build debugasserts

package grid

import "fmt"

// assertf panics on protocol violations in debug builds. Release builds
// compile this to a no-op and rely on logged errors instead.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
