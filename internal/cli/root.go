// Package cli is the sciencegpt command line: the question pipeline without
// the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sciencegpt-backend/internal/app"
	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/config"
	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/session"
)

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sciencegpt",
		Short:        "Science tutor for grades 1-12",
		Long:         "sciencegpt answers science questions at the chosen grade level and links a related video when one is found.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.Int("grade", 0, "Grade 1-12 (default 8)")
	flags.String("subject", "", "Subject offered for the grade (default: the grade's first subject)")
	flags.String("language", "", "Answer language (default English)")
	flags.String("topic", "", "Topic within the subject (default: all topics)")
	flags.Bool("json", false, "Print JSON instead of text")
	flags.Bool("verbose", false, "Log pipeline steps to stderr")

	root.AddCommand(newAskCmd())
	root.AddCommand(newFactCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newCurriculumCmd())
	return root
}

// env is what every subcommand needs.
type env struct {
	catalog  *curriculum.Catalog
	pipeline *app.Pipeline
	settings models.Settings
	out      io.Writer
	asJSON   bool
}

func setup(cmd *cobra.Command) (*env, error) {
	catalog := curriculum.MustLoad()

	settings, err := resolveSettings(cmd, catalog)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	pipeline, err := app.NewPipeline(commandContext(cmd), config.LoadPipeline(), catalog, nil, logger)
	if err != nil {
		return nil, err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return &env{
		catalog:  catalog,
		pipeline: pipeline,
		settings: settings,
		out:      cmd.OutOrStdout(),
		asJSON:   asJSON,
	}, nil
}

// resolveSettings starts from the catalog defaults and applies the flags.
// Changing the grade without a subject picks the grade's first subject.
func resolveSettings(cmd *cobra.Command, catalog *curriculum.Catalog) (models.Settings, error) {
	s := catalog.Defaults()
	f := cmd.Flags()

	if g, _ := f.GetInt("grade"); g != 0 {
		s.Grade = g
		if subjects := catalog.Subjects(g); len(subjects) > 0 {
			s.Subject = subjects[0]
		}
	}
	if v, _ := f.GetString("subject"); strings.TrimSpace(v) != "" {
		s.Subject = strings.TrimSpace(v)
	}
	if v, _ := f.GetString("language"); strings.TrimSpace(v) != "" {
		s.Language = strings.TrimSpace(v)
	}
	if v, _ := f.GetString("topic"); strings.TrimSpace(v) != "" {
		s.Topic = strings.TrimSpace(v)
	}

	if err := catalog.Validate(s); err != nil {
		return models.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// newSession gives the fact and suggestion commands a throwaway cache.
func (e *env) newSession() *session.Session {
	return session.New("cli", e.settings, cache.NewMemoryStore(nil), time.Now())
}

func (e *env) printJSON(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
