package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotebook/internal/adapters/storage"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// stdoutPath makes export write to standard output.
const stdoutPath = "-"

// cli holds the flags shared by every command and the streams they write to.
type cli struct {
	profile string
	verbose bool
	noColor bool

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Manage the quotebook collection",
		Long: `Manage the quotebook collection.

quotectl reads the service configuration (configs/<profile>.yaml and APP_*
variables) and operates on the configured store directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local"), "configuration profile")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&c.noColor, "no-color", noColorEnv(), "disable coloured output")

	root.AddCommand(
		c.randomCmd(),
		c.addCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.categoriesCmd(),
		c.listCmd(),
		c.postsCmd(),
	)

	return root
}

// printer writes status lines to stderr.
func (c *cli) printer() *printer {
	return newPrinter(c.stderr, !c.noColor && isTerminal(c.stderr))
}

// output writes results to stdout, which is often piped.
func (c *cli) output() *printer {
	return newPrinter(c.stdout, !c.noColor && isTerminal(c.stdout))
}

// setup loads the configuration and builds a logger writing to stderr.
func (c *cli) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.profile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	level, format := "warn", "pretty"
	if c.verbose {
		level = "debug"
	}

	if c.noColor {
		format = "text"
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  format,
		Service: "quotectl",
		Version: cfg.App.Version,
	}, c.stderr)

	return cfg, logger, nil
}

// withQuotes opens the configured store, loads the collection and runs fn.
// The store is closed when fn returns.
func (c *cli) withQuotes(fn func(ctx context.Context, quotes *app.QuoteService) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		cfg, logger, err := c.setup()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}

		defer func() {
			err = errors.Join(err, store.Close())
		}()

		ctx := logging.WithContext(cmd.Context(), logger)

		// Commands call Persist themselves so a failed write sets the exit code.
		quotes := app.NewQuoteService(app.QuoteServiceConfig{Store: store, Logger: logger, ManualPersist: true})
		quotes.Load(ctx)

		return fn(ctx, quotes)
	}
}

func (c *cli) randomCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random quote",
		Example: `  quotectl random
  quotectl random --category Motivation`,
		Args: cobra.NoArgs,
		RunE: c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
			q, err := quotes.RandomInCategory(ctx, category)
			if err != nil {
				return err
			}

			c.output().quote(q)

			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", domain.CategoryAll, "only pick from this category")

	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var text, category string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a quote to the collection",
		Example: `  quotectl add --text "Ship it." --category Engineering`,
		Args:    cobra.NoArgs,
		RunE: c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
			q, err := quotes.Add(ctx, text, category)
			if err != nil {
				return err
			}

			if err := quotes.Persist(ctx); err != nil {
				return err
			}

			c.printer().successf("Added quote to %s (%d quotes)", q.Category, quotes.QuoteCount())

			return nil
		}),
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "quote text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "quote category")

	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append the quotes of a JSON file",
		Long: `Append the quotes of a JSON file.

The file must hold a JSON array of {"text", "category"} objects. Entries missing
either field are skipped; anything that is not an array is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			return c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
				n, err := quotes.Import(ctx, string(raw))
				if err != nil {
					return err
				}

				if err := quotes.Persist(ctx); err != nil {
					return err
				}

				if n == 0 {
					c.printer().warnf("No quotes imported from %s", args[0])
					return nil
				}

				c.printer().successf("Imported %d quotes from %s", n, args[0])

				return nil
			})(cmd, args)
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as pretty-printed JSON",
		Example: `  quotectl export
  quotectl export --output - | jq length`,
		Args: cobra.NoArgs,
		RunE: c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
			data, err := quotes.Export(ctx)
			if err != nil {
				return err
			}

			if output == stdoutPath {
				_, err := io.WriteString(c.stdout, data+"\n")
				return err
			}

			if err := os.WriteFile(output, []byte(data), 0o644); err != nil { //nolint:gosec // Exports are meant to be shared
				return fmt.Errorf("writing export: %w", err)
			}

			c.printer().successf("Exported %d quotes to %s", quotes.QuoteCount(), output)

			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "quotes.json", `destination file, "-" for stdout`)

	return cmd
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
			for _, category := range quotes.Categories(ctx) {
				fmt.Fprintln(c.stdout, category)
			}

			return nil
		}),
	}
}

func (c *cli) listCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes in insertion order",
		Args:  cobra.NoArgs,
		RunE: c.withQuotes(func(ctx context.Context, quotes *app.QuoteService) error {
			list := quotes.Filter(ctx, category)

			out := c.output()
			for _, q := range list {
				out.quote(q)
			}

			if len(list) == 0 {
				c.printer().warnf("No quotes found")
			}

			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category (exact match)")

	return cmd
}

func (c *cli) postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "Fetch the posts feed once and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.setup()
			if err != nil {
				return err
			}

			client, err := clients.New(&clients.Config{
				BaseURL:     cmp.Or(cfg.Posts.BaseURL, config.DefaultPostsBaseURL),
				ServiceName: "posts",
				Timeout:     cmp.Or(cfg.Posts.Timeout, cfg.Client.Timeout),
				Circuit:     cfg.Client.CircuitBreaker,
				Transport:   cfg.Client.Transport,
				UserAgent:   "quotectl",
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("creating posts client: %w", err)
			}

			poller := app.NewPostsPoller(app.PostsPollerConfig{
				Client: acl.NewPostsAdapter(client, logger),
				Logger: logger,
			})

			posts, err := poller.FetchOnce(logging.WithContext(cmd.Context(), logger))
			if err != nil {
				return err
			}

			out := c.output()
			for _, post := range posts {
				out.post(post)
			}

			if len(posts) == 0 {
				c.printer().warnf("The feed returned no posts")
			}

			return nil
		},
	}
}
