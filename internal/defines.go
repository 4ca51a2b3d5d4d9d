// Package internal holds helpers shared by the uvm packages.
package internal

import (
	"iter"
	"maps"
	"slices"
)

// Layered merges layers of name/value defines. A name in a later layer
// overrides the same name in earlier layers. Names are yielded sorted.
func Layered(layers ...map[string]string) iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		merged := make(map[string]string)
		for _, layer := range layers {
			maps.Copy(merged, layer)
		}

		for _, name := range slices.Sorted(maps.Keys(merged)) {
			if !yield(name, merged[name]) {
				return
			}
		}
	}
}
