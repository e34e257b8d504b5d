package assets

import _ "embed"

// AbilitiesYAML is the built-in ability catalog.
//
//go:embed abilities.yaml
var AbilitiesYAML []byte
