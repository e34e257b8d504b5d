package factory

import (
	"bytes"
	"fmt"
	"log/slog"

	"gameplay-abilities/assets"
	"gameplay-abilities/internal/catalog"
	"gameplay-abilities/internal/engine"
	"gameplay-abilities/internal/tags"
)

// NewEngine loads the ability catalog from catalogPath, or the embedded one
// when the path is empty, and returns an engine with the demo triggers
// installed.
func NewEngine(catalogPath string, logger *slog.Logger) (*engine.Engine[assets.Stat], *catalog.Catalog[assets.Stat], error) {
	reg := tags.NewRegistry()
	RegisterTags(reg)

	var (
		cat *catalog.Catalog[assets.Stat]
		err error
	)
	if catalogPath != "" {
		cat, err = catalog.LoadFile(catalogPath, reg, assets.ParseStat)
	} else {
		cat, err = catalog.Load(bytes.NewReader(assets.AbilitiesYAML), reg, assets.ParseStat)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load abilities: %w", err)
	}

	e := engine.New(engine.Options[assets.Stat]{Tags: reg, Catalog: cat.Catalog, Logger: logger})
	RegisterTriggers(e)
	return e, cat, nil
}
