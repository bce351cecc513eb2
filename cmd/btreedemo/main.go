// Command btreedemo drives a generic bplustree.Tree with a small
// synthetic integer workload and prints the resulting structure. It
// exists to exercise the core through a configurable, observable
// front end; it is not part of the library's public contract.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/sahilb/bplustree/bplustree"
	"github.com/sahilb/bplustree/internal/telemetry"
)

func main() {
	fanout := flag.IntP("fanout", "f", 4, "B+ tree fanout (F >= 3)")
	count := flag.IntP("count", "n", 20, "number of keys to insert")
	seed := flag.Int64P("seed", "s", 1, "random seed for the insert order")
	verbose := flag.BoolP("verbose", "v", false, "log each split/merge/borrow")
	flag.Parse()

	if *fanout < 3 {
		fmt.Fprintln(os.Stderr, "fanout must be >= 3")
		os.Exit(2)
	}

	tree := bplustree.New[int, bplustree.StringValue](*fanout)

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	tree.SetTelemetry(telemetry.New(os.Stdout, level))

	keys := rand.New(rand.NewSource(*seed)).Perm(*count)
	for _, k := range keys {
		tree.Insert(k, bplustree.StringValue(fmt.Sprintf("value-%d", k)))
	}

	fmt.Printf("inserted %d keys, tree height %d\n", tree.Len(), tree.Height())
	tree.PrettyPrint()
	fmt.Print(tree.DebugLevels())

	tree.Remove(keys[0])
	fmt.Printf("\nafter removing %d:\n", keys[0])
	tree.PrettyPrint()
}
