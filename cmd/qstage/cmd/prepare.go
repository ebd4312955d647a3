package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qjob"
	"github.com/quatton/qstage/pkg/qstage"
	"github.com/quatton/qstage/pkg/qtmpl"
)

// ManifestFilename is the name of the manifest written by prepare --out.
const ManifestFilename = "manifest.yaml"

// preparedManifest is what prepare prints and writes.
type preparedManifest struct {
	JobID       string          `json:"job_id" yaml:"job_id"`
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint"`
	Manifest    qstage.Manifest `json:"manifest" yaml:"manifest"`
}

var (
	prepareOut          string
	prepareFormat       string
	prepareRestartFile  string
	prepareParentFolder string
	prepareParentRun    string
	prepareStrict       bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <job.yaml>",
	Short: "Build the submission manifest of a job",
	Long: `Resolve the input mode and restart source of a job and print its manifest.

Examples:
  # Print the manifest of a generated job
  qstage prepare job.yaml

  # Continue from the folder of a previous run on this host
  qstage prepare job.yaml --parent-folder ./runs/0193

  # Upload a restart file and stage everything local into ./stage
  qstage prepare job.yaml --restart-file old.restart --out ./stage`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := getEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		job, err := qjob.ReadFile(args[0])
		if err != nil {
			return err
		}

		store, err := openStore(e.cfg)
		if err != nil {
			return err
		}

		if prepareRestartFile != "" {
			if store == nil {
				return qerr.Errorf(qerr.CodeConfiguration, "--restart-file needs an object store (s3.endpoint)")
			}
			f, err := os.Open(prepareRestartFile)
			if err != nil {
				return err
			}
			blob, err := qart.UploadBlob(ctx, store, prepareRestartFile, f)
			f.Close()
			if err != nil {
				return err
			}
			e.logger.Info("uploaded restart file", "id", blob.ID, "file", blob.Filename)
			job.RestartFile = &blob
		}
		switch {
		case prepareParentFolder != "":
			job.ParentFolder = &qjob.FolderRef{Path: prepareParentFolder}
		case prepareParentRun != "":
			job.ParentFolder = &qjob.FolderRef{RunID: prepareParentRun}
		}

		resolver := qjob.Resolver{
			Store:   store,
			Backend: e.cfg.Backend,
			CodeID:  e.cfg.CodeID,
			Names:   e.cfg.Names,
		}
		req, err := resolver.Request(ctx, job)
		if err != nil {
			return err
		}

		generator, err := e.generator()
		if err != nil {
			return err
		}
		preparer := qstage.NewPreparer(qtmpl.Passthrough{}, generator,
			qstage.WithLogger(e.logger),
			qstage.WithStrictRestart(e.cfg.Restart.Strict || prepareStrict),
		)
		manifest, err := preparer.Prepare(req)
		if err != nil {
			return err
		}
		fingerprint, err := manifest.Fingerprint()
		if err != nil {
			return err
		}
		out := preparedManifest{JobID: req.ID, Fingerprint: fingerprint, Manifest: *manifest}

		if prepareOut != "" {
			written, err := qart.Stage(ctx, store, *manifest, prepareOut)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			path := filepath.Join(prepareOut, ManifestFilename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			e.logger.Info("staged job", "dir", prepareOut, "files", len(written)+1)
		}

		return printManifest(cmd, out, prepareFormat)
	},
}

func printManifest(cmd *cobra.Command, out preparedManifest, format string) error {
	w := cmd.OutOrStdout()
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return qerr.Errorf(qerr.CodeValidation, "unknown format %q, use yaml or json", format)
}

func init() {
	prepareCmd.Flags().StringVarP(&prepareOut, "out", "o", "", "stage the input, generated files and uploaded blobs into this directory")
	prepareCmd.Flags().StringVarP(&prepareFormat, "format", "f", "yaml", "output format (yaml or json)")
	prepareCmd.Flags().StringVar(&prepareRestartFile, "restart-file", "", "upload this restart file and continue from it")
	prepareCmd.Flags().StringVar(&prepareParentFolder, "parent-folder", "", "continue from the restart file in this local run folder")
	prepareCmd.Flags().StringVar(&prepareParentRun, "parent-run", "", "continue from the restart file of this run in object storage")
	prepareCmd.Flags().BoolVar(&prepareStrict, "strict-restart", false, "reject jobs with both a restart file and a parent folder")
	prepareCmd.MarkFlagsMutuallyExclusive("parent-folder", "parent-run")
	rootCmd.AddCommand(prepareCmd)
}
