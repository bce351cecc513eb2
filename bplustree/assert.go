package bplustree

import "fmt"

// assertInvariant panics with a formatted message if condition is false.
// Every panic raised by this package goes through here; apart from
// New's fanout check, which rejects a caller's argument, they all mark
// a defect in the core itself (see spec §7).
func assertInvariant(condition bool, msg string, v ...any) {
	if !condition {
		panic(fmt.Sprintf("bplustree: invariant violated: "+msg, v...))
	}
}
