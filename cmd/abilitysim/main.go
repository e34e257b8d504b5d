// abilitysim runs scripted ability scenarios against the engine without a
// terminal and logs what happens tick by tick. Useful for checking a custom
// catalog:
//
//	ABILITIES_CATALOG=./my-abilities.yaml go run ./cmd/abilitysim -scenario mana
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gameplay-abilities/internal/config"
	"gameplay-abilities/internal/logging"
)

func main() {
	name := flag.String("scenario", "all", "scenario to run: all, "+strings.Join(scenarioNames(), ", "))
	flag.Parse()

	if err := run(*name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	names := []string{name}
	if name == "all" {
		names = scenarioNames()
	}
	for _, n := range names {
		sc, ok := scenarios[n]
		if !ok {
			return fmt.Errorf("unknown scenario %q", n)
		}
		res, err := runScenario(sc, cfg, logger.With("scenario", n))
		if err != nil {
			return fmt.Errorf("scenario %s: %w", n, err)
		}
		logger.Info("scenario finished",
			"scenario", n,
			"activations", res.Activations,
			"ends", res.Ends,
			"mana", res.Mana,
			"grenades", res.Grenades,
			"ticks", res.Ticks,
		)
	}
	return nil
}

func scenarioNames() []string {
	out := make([]string, 0, len(scenarios))
	for n := range scenarios {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
