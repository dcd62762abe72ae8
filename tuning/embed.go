package tuning

import (
	"embed"
)

//go:embed character.yaml
var specFS embed.FS

// Default returns the embedded character record. The embedded file is
// validated at build time by the package tests, so a failure here is a
// programmer error.
func Default() *Character {
	data, err := specFS.ReadFile("character.yaml")
	if err != nil {
		panic("tuning: read embedded character.yaml: " + err.Error())
	}
	spec, err := Parse(data)
	if err != nil {
		panic("tuning: embedded character.yaml: " + err.Error())
	}
	return spec
}
