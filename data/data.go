// Package data bundles the default Thaumcraft 4 aspect list, used when no
// source file is configured.
package data

import (
	_ "embed"
	"strings"
)

//go:embed aspects.txt
var Aspects string

func AspectLines() []string {
	return strings.Split(Aspects, "\n")
}
