package mccfr

import (
	"os"

	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func decodeAbstraction(v int64) abstraction.Abstraction {
	return abstraction.Decode(v)
}
