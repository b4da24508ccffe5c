// Package cli implements the movierecctl command tree.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/movierec/internal/config"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	"github.com/kailas-cloud/movierec/internal/domain/tags"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	actrepo "github.com/kailas-cloud/movierec/internal/repository/activity"
	movierepo "github.com/kailas-cloud/movierec/internal/repository/movie"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/version"
)

// NewRootCmd builds the movierecctl command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "movierecctl",
		Short: "Inspect and seed the movierec recommendation engine",
		Long: `movierecctl builds content tags, runs the similar-title and
for-you recommendation policies over a YAML catalog, and seeds a
Redis or Valkey store with a catalog file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := ""
			if verbose {
				level = "debug"
			}
			log, err := logpkg.NewLogger("cli", level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), log))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newTagsCmd(),
		newSimilarCmd(),
		newForYouCmd(),
		newSeedCmd(),
		newVersionCmd(),
	)
	return root
}

func newTagsCmd() *cobra.Command {
	var (
		description string
		genres      []string
		language    string
	)
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the tag string built from a description, genres and language",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), tags.Build(description, genres, language))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Movie description")
	cmd.Flags().StringSliceVarP(&genres, "genres", "g", nil, "Genres (comma separated)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language")
	return cmd
}

type policyFlags struct {
	catalog string
	k       int
	seed    uint64
	json    bool
}

func (p *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.catalog, "catalog", "c", "", "YAML catalog file")
	cmd.Flags().IntVarP(&p.k, "limit", "k", 0, "Number of recommendations (default 7)")
	cmd.Flags().Uint64Var(&p.seed, "seed", 0, "Random seed for the fallback pick (0 = time)")
	cmd.Flags().BoolVar(&p.json, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("catalog")
}

func (p *policyFlags) offline(ctx context.Context) (*Offline, error) {
	f, err := LoadCatalogFile(p.catalog)
	if err != nil {
		return nil, err
	}
	return NewOffline(ctx, f, recommenduc.WithSeed(p.seed))
}

func (p *policyFlags) print(cmd *cobra.Command, heading string, recs []recommenduc.Recommendation) error {
	if p.json {
		return writeRecommendationsJSON(cmd.OutOrStdout(), recs)
	}
	renderRecommendations(cmd.OutOrStdout(), heading, recs)
	return nil
}

func newSimilarCmd() *cobra.Command {
	var (
		flags policyFlags
		title string
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Rank catalog movies by similarity to a title",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := flags.offline(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := o.Recommend.Similar(cmd.Context(), title, flags.k)
			if err != nil {
				return err
			}
			return flags.print(cmd, fmt.Sprintf("Similar to %q", title), recs)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title to find similar movies for")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newForYouCmd() *cobra.Command {
	var (
		flags policyFlags
		user  string
	)
	cmd := &cobra.Command{
		Use:   "foryou",
		Short: "Recommend unwatched movies from a user's history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := flags.offline(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := o.Recommend.ForUser(cmd.Context(), user, flags.k)
			if err != nil {
				return err
			}
			return flags.print(cmd, "For "+user, recs)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&user, "user", "u", "", "User whose history drives the ranking")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		catalogPath string
		env         string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a catalog file into the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := LoadCatalogFile(catalogPath)
			if err != nil {
				return err
			}
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Database.Addrs,
				Username: cfg.Database.Username,
				Password: cfg.Database.Password,
				DB:       cfg.Database.DB,
			})
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
			if err := store.WaitForReady(ctx, timeout); err != nil {
				return err
			}

			svc := cataloguc.New(
				movierepo.New(store, cfg.Storage.KeyPrefix),
				actrepo.New(store, cfg.Storage.KeyPrefix),
			)
			created, err := Seed(ctx, svc, f)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d movies into %s\n",
				len(created), len(f.Movies), strings.Join(cfg.Database.Addrs, ","))
			return err
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "YAML catalog file")
	cmd.Flags().StringVar(&env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "movierecctl "+version.String())
		},
	}
}
