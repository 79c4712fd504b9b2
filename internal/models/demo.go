package models

import (
	_ "embed"
)

//go:embed demo.yaml
var demoExploration []byte

// DemoExploration returns a fresh copy of the bundled sample exploration.
func DemoExploration() (*Exploration, error) {
	return DecodeExploration(demoExploration)
}
