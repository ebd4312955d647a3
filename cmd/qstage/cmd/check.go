package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qexit"
)

var (
	checkManifest  string
	checkTemporary string
	checkFinished  bool
)

var checkCmd = &cobra.Command{
	Use:   "check <retrieved-dir>",
	Short: "Check the retrieved files of a finished run",
	Long: `Compare the files retrieved from a finished run with the output contract.
The first missing file decides the exit code. With a manifest the restart
files it asked for are checked too, and when a result cache is configured a
passing run is recorded under the manifest fingerprint.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := getEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var prepared preparedManifest
		var expect qexit.Expectations
		if checkManifest != "" {
			data, err := os.ReadFile(checkManifest)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(data, &prepared); err != nil {
				return qerr.New(qerr.CodeValidation, fmt.Errorf("decoding %s: %w", checkManifest, err))
			}
			expect = qexit.Expect(prepared.Manifest, e.cfg.Names)
		}

		outcome := qexit.Outcome{Finished: checkFinished}
		if folder, err := qart.OpenLocalFolder(args[0]); err != nil {
			outcome.ListErr = err
		} else {
			outcome.Listing = folder.Listdir()
		}
		if checkTemporary != "" {
			folder, err := qart.OpenLocalFolder(checkTemporary)
			if err != nil {
				return err
			}
			outcome.Temporary = folder.Listdir()
		}

		failure := qexit.Check(e.cfg.Names, expect, outcome)

		cache, closeCache, err := openCache(ctx, e.cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		if cache != nil && prepared.Fingerprint != "" {
			if failure == nil {
				err = cache.Put(ctx, qexit.Result{
					Fingerprint: prepared.Fingerprint,
					RunID:       prepared.JobID,
					Listing:     outcome.Listing,
					FinishedAt:  time.Now().UTC(),
				})
			} else {
				var dropped bool
				dropped, err = cache.Report(ctx, prepared.Fingerprint, failure)
				if dropped {
					e.logger.Info("dropped cached result", "fingerprint", prepared.Fingerprint)
				}
			}
			if err != nil {
				return err
			}
		}

		if failure != nil {
			if code, ok := qexit.FromError(failure); ok && code.Resumable() {
				fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("the run can be continued from its intermediate restart file"))
			}
			return failure
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("all expected outputs retrieved"))
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkManifest, "manifest", "m", "", "manifest written by prepare --out")
	checkCmd.Flags().StringVar(&checkTemporary, "temporary", "", "directory with the files retrieved for parsing only")
	checkCmd.Flags().BoolVar(&checkFinished, "finished", false, "the run terminated normally")
	rootCmd.AddCommand(checkCmd)
}
