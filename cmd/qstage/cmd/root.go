package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quatton/qstage/pkg/qconfig"
	"github.com/quatton/qstage/pkg/qlog"
)

type contextKey string

const envContextKey contextKey = "qstageenv"

// env is what every command gets from the root command.
type env struct {
	cfg    *qconfig.Config
	logger *qlog.Logger
}

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "qstage",
		Short: "Stage LAMMPS jobs: resolve restart files and build submission manifests",
		Long: `qstage prepares LAMMPS jobs for submission. It decides whether a job
runs a verbatim script or a generated input, works out which restart file the
job continues from, and writes the manifest of files to copy, link, write and
retrieve. After a run, check compares the retrieved files with the output
contract and reports the matching exit code.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := qconfig.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			level := cfg.LogLevel()
			if verbose {
				level = slog.LevelDebug
			}
			logger := qlog.NewLogger(level, cmd.ErrOrStderr())

			ctx := context.WithValue(cmd.Context(), envContextKey, &env{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},
	}
)

func getEnv(cmd *cobra.Command) (*env, error) {
	e, ok := cmd.Context().Value(envContextKey).(*env)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return e, nil
}

// resolvePath makes a path from the config file relative to that file.
func (e *env) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if used := e.cfg.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			return filepath.Join(filepath.Dir(abs), p)
		}
	}
	return p
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		exitIfError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: qstage.yaml, .qstage/config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log resolution decisions")
}
