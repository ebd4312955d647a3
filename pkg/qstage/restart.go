package qstage

import (
	"path"
	"slices"

	"github.com/quatton/qstage/pkg/qerr"
)

// RestartSource is where the restart file of a job comes from.
type RestartSource interface {
	isRestartSource()
}

// NoRestart means the job starts from scratch.
type NoRestart struct{}

// SuppliedBlob is a restart file uploaded with the request.
type SuppliedBlob struct {
	Filename string
}

// ParentFolderSource is a restart file written by a previous job.
type ParentFolderSource struct {
	BackendID      string
	RemotePath     string
	UseSymlink     bool
	SourceFilename string
}

func (NoRestart) isRestartSource()          {}
func (SuppliedBlob) isRestartSource()       {}
func (ParentFolderSource) isRestartSource() {}

// RestartPlan is the outcome of restart resolution.
type RestartPlan struct {
	// Filename is the effective restart file name in the working
	// directory, empty when the job does not continue from a restart.
	Filename string
	// Source is the source Filename refers to.
	Source RestartSource
	// Transfers place every supplied restart file, in resolution order.
	Transfers []Transfer
}

// Continues reports whether the job reads a restart file.
func (p RestartPlan) Continues() bool {
	return p.Filename != ""
}

// ResolveRestart works out which restart file the job reads and how it gets
// into the working directory. A blob is handled first and a parent folder
// second; the parent folder decides the effective file name while the blob
// is still copied. Nothing is returned when the parent folder does not
// contain the requested file.
func ResolveRestart(opts Options, names FileNames, blob *Blob, folder RemoteFolder) (RestartPlan, error) {
	if err := names.Validate(); err != nil {
		return RestartPlan{}, err
	}
	names = names.WithDefaults()
	plan := RestartPlan{Source: NoRestart{}}

	if blob != nil {
		plan.Filename = names.ReadRestart
		plan.Source = SuppliedBlob{Filename: names.ReadRestart}
		plan.Transfers = append(plan.Transfers, LocalCopy{
			SourceID:   blob.ID,
			SourceName: blob.Filename,
			Dest:       names.ReadRestart,
		})
	}

	if folder != nil {
		source := ParentFolderSource{
			BackendID:      folder.BackendID(),
			RemotePath:     path.Join(folder.RemotePath(), opts.PreviousRestartFile),
			UseSymlink:     opts.ParentFolderSymlink,
			SourceFilename: opts.PreviousRestartFile,
		}
		if !slices.Contains(folder.Listdir(), source.SourceFilename) {
			return RestartPlan{}, qerr.Errorf(qerr.CodeConfiguration,
				"the name %q for the restart file is not present in the remote folder %q",
				source.SourceFilename, folder.RemotePath())
		}

		if source.UseSymlink {
			plan.Transfers = append(plan.Transfers, RemoteSymlink{
				BackendID:  source.BackendID,
				RemotePath: source.RemotePath,
				Dest:       ParentRestartFilename,
			})
		} else {
			plan.Transfers = append(plan.Transfers, RemoteCopy{
				BackendID:  source.BackendID,
				RemotePath: source.RemotePath,
				Dest:       ParentRestartFilename,
			})
		}
		plan.Filename = ParentRestartFilename
		plan.Source = source
	}

	return plan, nil
}

// RejectAmbiguousRestart fails when both a blob and a parent folder are given.
func RejectAmbiguousRestart(blob *Blob, folder RemoteFolder) error {
	if blob != nil && folder != nil {
		return qerr.Errorf(qerr.CodeValidation,
			"ambiguous restart sources: both a restart file and a parent folder (%s) were given",
			folder.RemotePath())
	}
	return nil
}
