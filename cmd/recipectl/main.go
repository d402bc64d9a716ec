package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/app"
	"github.com/kailas-cloud/recipedex/internal/config"
	dombatch "github.com/kailas-cloud/recipedex/internal/domain/batch"
	"github.com/kailas-cloud/recipedex/internal/domain/health"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	"github.com/kailas-cloud/recipedex/internal/version"
)

func main() {
	_ = godotenv.Load()
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "recipectl",
		Usage:   "Operate a recipedex catalog",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: config/<ENV>.yaml)",
			},
			&cli.StringFlag{
				Name:  "badger",
				Usage: "Path to a BadgerDB directory; overrides the configured database",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import recipes from a JSON array file, skipping names already in the catalog",
				ArgsUsage: "<file>",
				Action:    importCommand,
			},
			{
				Name:   "search",
				Usage:  "Search the catalog; without criteria lists the newest recipes",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text query"},
					&cli.StringSliceFlag{Name: "ingredient", Aliases: []string{"i"}, Usage: "Ingredient term (repeatable)"},
					&cli.StringFlag{Name: "category", Usage: "Category label (substring, case-insensitive)"},
					&cli.Float64Flag{Name: "max-calories", Usage: "Maximum calories per serving"},
					&cli.Float64Flag{Name: "min-protein", Usage: "Minimum protein in grams"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results (0 = configured default)"},
				},
			},
			{
				Name:   "recommend",
				Usage:  "Rank recipes for a user's health declarations",
				Action: recommendCommand,
				Flags: append(declarationFlags(),
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results (0 = configured default)"},
				),
			},
			{
				Name:   "annotate",
				Usage:  "Show health warnings and benefits of one recipe for a user",
				Action: annotateCommand,
				Flags: append(declarationFlags(),
					&cli.Int64Flag{Name: "id", Usage: "Recipe id", Required: true},
				),
			},
		},
	}
}

func declarationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "goal", Usage: "Health goal (lose, gain, maintain)"},
		&cli.StringSliceFlag{Name: "allergy", Usage: "Declared allergy (repeatable)"},
		&cli.StringSliceFlag{Name: "condition", Usage: "Declared medical condition (repeatable)"},
		&cli.StringSliceFlag{Name: "restriction", Usage: "Declared dietary restriction (repeatable)"},
	}
}

// openApp loads the configuration and opens the catalog. The index is built
// lazily by the first query of the process.
func openApp(c *cli.Context) (*app.App, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return nil, nil, err
	}
	if dir := c.String("badger"); dir != "" {
		cfg.Database = config.DatabaseConfig{Driver: config.DriverBadger, Path: dir}
	}

	logger, err := logpkg.NewLogger("cli", c.String("log-level"))
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.Open(c.Context, &cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, logger, nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("import takes exactly one file argument")
	}
	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read recipes: %w", err)
	}
	var drafts []recipe.Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return fmt.Errorf("decode recipes: %w", err)
	}

	a, logger, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Catalog.Import(c.Context, drafts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, res := range results {
		switch res.Status() {
		case dombatch.StatusOK:
			fmt.Fprintf(w, "%s\t%s\t#%d\n", res.Status(), res.Name(), res.ID())
		case dombatch.StatusError:
			logger.Warn("Recipe not imported", zap.String("name", res.Name()), zap.Error(res.Err()))
			fmt.Fprintf(w, "%s\t%s\t%v\n", res.Status(), res.Name(), res.Err())
		default:
			fmt.Fprintf(w, "%s\t%s\t\n", res.Status(), res.Name())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	sum := dombatch.Summarize(results)
	fmt.Fprintf(c.App.Writer, "imported %d, skipped %d, failed %d\n", sum.Imported, sum.Skipped, sum.Failed)
	return nil
}

func searchCommand(c *cli.Context) error {
	a, _, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := c.Context
	limit := c.Int("limit")

	if q := c.String("query"); q != "" {
		results, err := a.Search.Search(ctx, q, limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		for i := range results {
			r := results[i].Recipe()
			fmt.Fprintf(w, "%d\t%s\t%s\tscore=%d\n", r.ID, r.Name, r.Category, results[i].Score())
		}
		return w.Flush()
	}

	var found []recipe.Recipe
	switch {
	case len(c.StringSlice("ingredient")) > 0:
		found, err = a.Search.SearchByIngredients(ctx, c.StringSlice("ingredient"), limit)
	case c.String("category") != "":
		found, err = a.Search.SearchByCategory(ctx, c.String("category"), limit)
	case c.IsSet("max-calories") || c.IsSet("min-protein"):
		found, err = searchByNutrition(ctx, a, c, limit)
	default:
		found, err = a.Search.Popular(ctx, limit)
	}
	if err != nil {
		return err
	}
	return printRecipes(c.App.Writer, found)
}

func searchByNutrition(ctx context.Context, a *app.App, c *cli.Context, limit int) ([]recipe.Recipe, error) {
	var maxCal, minProt *float64
	if c.IsSet("max-calories") {
		v := c.Float64("max-calories")
		maxCal = &v
	}
	if c.IsSet("min-protein") {
		v := c.Float64("min-protein")
		minProt = &v
	}
	pred, err := filter.NewNutrition(maxCal, minProt)
	if err != nil {
		return nil, err
	}
	return a.Search.SearchByNutrition(ctx, pred, limit)
}

func recommendCommand(c *cli.Context) error {
	d, err := declarations(c)
	if err != nil {
		return err
	}
	a, _, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.Personalize.Recommend(c.Context, d, c.Int("limit"))
	if err != nil {
		return err
	}
	return printRecipes(c.App.Writer, found)
}

func annotateCommand(c *cli.Context) error {
	d, err := declarations(c)
	if err != nil {
		return err
	}
	a, _, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	notes, err := a.Personalize.Annotate(c.Context, c.Int64("id"), d)
	if err != nil {
		return err
	}
	for _, line := range notes.Warnings {
		fmt.Fprintln(c.App.Writer, line)
	}
	for _, line := range notes.Benefits {
		fmt.Fprintln(c.App.Writer, line)
	}
	if len(notes.Warnings)+len(notes.Benefits) == 0 {
		fmt.Fprintln(c.App.Writer, "no health notes")
	}
	return nil
}

// declarations encodes the repeatable flags in the serialized list form
// stored on users.
func declarations(c *cli.Context) (health.Declarations, error) {
	d := health.Declarations{Goal: strings.TrimSpace(c.String("goal"))}
	for _, f := range []struct {
		flag string
		dst  *string
	}{
		{"allergy", &d.Allergies},
		{"condition", &d.MedicalConditions},
		{"restriction", &d.DietaryRestrictions},
	} {
		values := c.StringSlice(f.flag)
		if len(values) == 0 {
			continue
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return health.Declarations{}, fmt.Errorf("encode %s: %w", f.flag, err)
		}
		*f.dst = string(raw)
	}
	return d, nil
}

func printRecipes(out io.Writer, rs []recipe.Recipe) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i := range rs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", rs[i].ID, rs[i].Name, rs[i].Category, calories(&rs[i]))
	}
	return w.Flush()
}

func calories(r *recipe.Recipe) string {
	if r.Nutrition.Calories == nil {
		return "-"
	}
	return fmt.Sprintf("%g kcal", *r.Nutrition.Calories)
}
