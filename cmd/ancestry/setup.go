package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/config"
	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

const suggestionLimit = 3

var (
	// Global flags
	catalogPaths []string
	pointBudget  int
	logLevel     string
	dotenvFile   string

	cfg          *config.Config
	catalogCache *catalog.Cache
)

// setup loads configuration for every command. Flags set on the command line
// override environment values.
func setup(cmd *cobra.Command, _ []string) error {
	var files []string
	if dotenvFile != "" {
		files = append(files, dotenvFile)
	}

	loaded, err := config.Load(files...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		loaded.CatalogPaths = catalogPaths
	}
	if flags.Changed("budget") {
		loaded.PointBudget = pointBudget
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = strings.ToLower(logLevel)
	}
	if flags.Changed("redis-url") {
		loaded.RedisURL = redisURL
	}
	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	cfg = loaded
	slog.SetDefault(cfg.NewLogger(os.Stderr))
	catalogCache = catalog.NewFileCache(cfg.CatalogPaths...)

	slog.Debug("configuration loaded",
		"catalog_paths", cfg.CatalogPaths,
		"point_budget", cfg.PointBudget,
		"log_level", cfg.LogLevel)
	return nil
}

func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := catalogCache.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalog")
	}
	return cat, nil
}

// limitsFor applies the configured budget override, nil keeps the catalog limits
func limitsFor(cat *catalog.Catalog) *selection.Limits {
	if cfg.PointBudget <= 0 {
		return nil
	}
	limits := selection.LimitsFromCatalog(cat)
	limits.PointBudget = cfg.PointBudget
	return &limits
}

func newRules(cat *catalog.Catalog) (*selection.Rules, error) {
	rules, err := selection.NewRules(&selection.RulesConfig{
		Catalog: cat,
		Limits:  limitsFor(cat),
		Logger:  slog.Default(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create selection rules")
	}
	return rules, nil
}

// unknownTrait reports an id missing from the catalog with near matches
func unknownTrait(cat *catalog.Catalog, id string) error {
	msg := fmt.Sprintf("unknown trait %q", id)
	if hints := cat.Suggest(id, suggestionLimit); len(hints) > 0 {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(hints, ", "))
	}
	return errors.InvalidArgument(msg).WithMeta("trait_id", id)
}

// parseAssignments splits trait=option pairs, keeping their order
func parseAssignments(values []string) ([][2]string, error) {
	out := make([][2]string, 0, len(values))
	for _, v := range values {
		traitID, optionID, ok := strings.Cut(v, "=")
		traitID = strings.TrimSpace(traitID)
		optionID = strings.TrimSpace(optionID)
		if !ok || traitID == "" || optionID == "" {
			return nil, errors.InvalidArgumentf("option %q must look like trait=option", v)
		}
		out = append(out, [2]string{traitID, optionID})
	}
	return out, nil
}
