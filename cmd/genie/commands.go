package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imagegenie/internal/bootstrap"
	"imagegenie/internal/domain"
	"imagegenie/internal/infra"
	"imagegenie/internal/middleware"
	"imagegenie/internal/service"
)

type cliState struct {
	verbose bool
	locale  string
	asJSON  bool

	cfg    *infra.Config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	st := &cliState{}
	root := &cobra.Command{
		Use:           "genie",
		Short:         "Compose prompts from curated options and generate images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			infra.LoadDotEnv()
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.logger = infra.NewCLILogger(cfg.AppEnv, st.verbose)
			cmd.SetContext(middleware.WithRequestID(cmd.Context(), uuid.NewString()))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&st.locale, "locale", "en", "notification language (en or id)")
	root.PersistentFlags().BoolVar(&st.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newSeedCommand(st),
		newOptionsCommand(st),
		newGenerateCommand(st),
		newEventCommand(st),
		newDeleteCommand(st),
		newMigrateCommand(st),
	)
	return root
}

// run wires the application, calls fn and turns its error into a localized
// notification on stderr.
func (st *cliState) run(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	locale := st.locale
	app, err := bootstrap.New(cmd.Context(), st.cfg, st.logger, func(context.Context) string { return locale })
	if err != nil {
		return err
	}
	defer app.Close()

	if err := fn(cmd.Context(), app); err != nil {
		n := service.ErrorNotification(err, st.locale)
		st.logger.Debug().Err(err).Str("code", n.Code).Msg("command failed")
		return fmt.Errorf("%s", n.Message)
	}
	return nil
}

func (st *cliState) print(out io.Writer, v any, text string) error {
	if st.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

func newSeedCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace every option list with the bundled defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Service.SeedDefaults(ctx); err != nil {
					return err
				}
				return st.print(cmd.OutOrStdout(), map[string]string{"store": app.Stores.Backend}, "seeded "+app.Stores.Backend+" store")
			})
		},
	}
}

func newOptionsCommand(st *cliState) *cobra.Command {
	var replace []string
	cmd := &cobra.Command{
		Use:   "options [category]",
		Short: "List option categories, or replace one with --set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if len(args) == 0 {
					if len(replace) > 0 {
						return fmt.Errorf("%w: --set needs a category", domain.ErrInvalidOption)
					}
					all, err := app.Service.ListAllOptions(ctx)
					if err != nil {
						return err
					}
					return st.print(cmd.OutOrStdout(), all, formatCategories(all))
				}
				if cmd.Flags().Changed("set") {
					if err := app.Service.Reseed(ctx, args[0], replace); err != nil {
						return err
					}
				}
				opts, err := app.Service.ListOptions(ctx, args[0])
				if err != nil {
					return err
				}
				return st.print(cmd.OutOrStdout(), opts, formatCategories([]service.CategoryOptions{*opts}))
			})
		},
	}
	cmd.Flags().StringSliceVar(&replace, "set", nil, "replace the category with these labels, in order")
	return cmd
}

func formatCategories(all []service.CategoryOptions) string {
	var b strings.Builder
	for i, c := range all {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%s)\n", c.Title, c.Category.Key())
		for _, name := range c.Options {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type generateFlags struct {
	choices     map[domain.Category]*string
	prompt      string
	override    bool
	size        string
	quality     string
	renderStyle string
}

// form flattens the flags into the same payload the HTTP API accepts.
func (f *generateFlags) form() map[string]string {
	form := map[string]string{
		domain.FieldPrompt:      f.prompt,
		domain.FieldSize:        f.size,
		domain.FieldQuality:     f.quality,
		domain.FieldRenderStyle: f.renderStyle,
	}
	if f.override {
		form[domain.FieldPromptOverride] = domain.OverrideIndicator
	}
	for c, v := range f.choices {
		form[c.Key()] = *v
	}
	return form
}

func newGenerateCommand(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a prompt from the given options and generate one image",
		Args:  cobra.NoArgs,
	}
	f := bindGenerateFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := st.cfg.RequireAPIKey(); err != nil {
			return err
		}
		return st.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
			n, err := app.Service.Submit(ctx, f.form())
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s\n%s\nrevised prompt: %s", n.Message, n.Path, n.RevisedPrompt)
			return st.print(cmd.OutOrStdout(), n, text)
		})
	}
	return cmd
}

// bindGenerateFlags registers one flag per category plus the subject and
// provider parameters.
func bindGenerateFlags(cmd *cobra.Command) *generateFlags {
	f := &generateFlags{choices: make(map[domain.Category]*string)}
	for _, c := range domain.Categories() {
		v := new(string)
		f.choices[c] = v
		cmd.Flags().StringVar(v, strings.ReplaceAll(c.Key(), "_", "-"), "", c.Title()+" label")
	}
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "free-text subject")
	cmd.Flags().BoolVar(&f.override, "as-is", false, "ask the provider to use the prompt without adding detail")
	cmd.Flags().StringVar(&f.size, "size", string(domain.DefaultImageSize), "image size (1024x1024, 1792x1024, 1024x1792)")
	cmd.Flags().StringVar(&f.quality, "quality", string(domain.DefaultImageQuality), "image quality (standard, hd)")
	cmd.Flags().StringVar(&f.renderStyle, "render-style", string(domain.DefaultRenderStyle), "render style (vivid, natural)")
	return f
}

func newEventCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "event <created>",
		Short: "Show the event log entry recorded for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				created, err := service.ParseCreated(args[0])
				if err != nil {
					return err
				}
				entry, err := app.Service.FindEvent(ctx, created)
				if err != nil {
					return err
				}
				text := fmt.Sprintf("created: %d\nlogged:  %s\nprompt:  %s\nrevised: %s",
					entry.Created, entry.LoggedAt.Format("2006-01-02 15:04:05"), entry.Prompt, entry.RevisedPrompt)
				return st.print(cmd.OutOrStdout(), entry, text)
			})
		},
	}
}

func newDeleteCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <created>",
		Short: "Delete a generated image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				created, err := service.ParseCreated(args[0])
				if err != nil {
					return err
				}
				n, err := app.Service.Delete(ctx, created)
				if err != nil {
					return err
				}
				return st.print(cmd.OutOrStdout(), n, n.Message)
			})
		},
	}
}

func newMigrateCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL tables (DATABASE_URL must be set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !st.cfg.UsePostgres() {
				return fmt.Errorf("migrate: DATABASE_URL is not set; the sqlite store creates its tables on open")
			}
			if err := infra.ApplySchema(cmd.Context(), st.cfg.DatabaseURL, st.logger); err != nil {
				return err
			}
			return st.print(cmd.OutOrStdout(), map[string]string{"status": "ok"}, "schema applied")
		},
	}
}
