// Package qjob reads job descriptions from files and request bodies and turns
// them into staging requests.
package qjob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qstage"
	"github.com/quatton/qstage/pkg/qtmpl"
)

// Job is the serialized form of one job attempt.
type Job struct {
	ID         string               `json:"id,omitempty" yaml:"id,omitempty" doc:"Job attempt ID, generated when empty"`
	Code       string               `json:"code,omitempty" yaml:"code,omitempty" doc:"Executable the job is started with"`
	Script     *string              `json:"script,omitempty" yaml:"script,omitempty" doc:"Complete input script, used verbatim"`
	Structure  string               `json:"structure,omitempty" yaml:"structure,omitempty" doc:"Structure as LAMMPS data text"`
	Potential  *qtmpl.TextPotential `json:"potential,omitempty" yaml:"potential,omitempty" doc:"Potential as LAMMPS commands"`
	Parameters map[string]any       `json:"parameters,omitempty" yaml:"parameters,omitempty" doc:"Parameters of the generated input"`
	Settings   map[string]any       `json:"settings,omitempty" yaml:"settings,omitempty" doc:"Submission settings"`

	RestartFile  *qstage.Blob `json:"restartfile,omitempty" yaml:"restartfile,omitempty" doc:"Uploaded restart file"`
	ParentFolder *FolderRef   `json:"parent_folder,omitempty" yaml:"parent_folder,omitempty" doc:"Folder of the run to continue"`
}

// FolderRef points at the working folder of a previous run, either a run in
// object storage or a directory on this host.
type FolderRef struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" doc:"Backend the folder lives on"`
	RunID   string `json:"run_id,omitempty" yaml:"run_id,omitempty" doc:"Run ID in object storage"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty" doc:"Local directory"`
}

// Decode reads a YAML job description.
func Decode(r io.Reader) (Job, error) {
	var job Job
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return Job{}, qerr.New(qerr.CodeValidation, fmt.Errorf("decoding job: %w", err))
	}
	return job, nil
}

// ReadFile reads a YAML job description from path.
func ReadFile(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Job{}, qerr.New(qerr.CodeNotFound, err)
		}
		return Job{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Resolver opens the folders and blobs a job refers to.
type Resolver struct {
	// Store holds runs and uploaded blobs. It may be nil, in which case only
	// local parent folders can be used.
	Store   qart.Store
	Backend string
	CodeID  string
	Names   qstage.FileNames
}

// Request builds the staging request of job.
func (r Resolver) Request(ctx context.Context, job Job) (*qstage.Request, error) {
	req := &qstage.Request{
		ID:          job.ID,
		CodeID:      job.Code,
		Script:      job.Script,
		Settings:    qstage.NewSettings(job.Settings),
		RestartBlob: job.RestartFile,
		Names:       r.Names,
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CodeID == "" {
		req.CodeID = r.CodeID
	}
	if job.Structure != "" {
		req.Structure = job.Structure
	}
	if job.Potential != nil {
		req.Potential = *job.Potential
	}
	if job.Parameters != nil {
		req.Parameters = qstage.Parameters(job.Parameters)
	}

	if job.ParentFolder != nil {
		folder, err := r.openFolder(ctx, *job.ParentFolder)
		if err != nil {
			return nil, err
		}
		req.ParentFolder = folder
	}
	return req, nil
}

func (r Resolver) openFolder(ctx context.Context, ref FolderRef) (qstage.RemoteFolder, error) {
	switch {
	case ref.RunID != "" && ref.Path != "":
		return nil, qerr.Errorf(qerr.CodeValidation, "parent folder needs either run_id or path, not both")
	case ref.RunID != "":
		if r.Store == nil {
			return nil, qerr.Errorf(qerr.CodeConfiguration, "parent folder %s is in object storage but none is configured", ref.RunID)
		}
		backend := ref.Backend
		if backend == "" {
			backend = r.Backend
		}
		folder, err := qart.OpenFolder(ctx, r.Store, backend, ref.RunID)
		if err != nil {
			return nil, err
		}
		return folder, nil
	case ref.Path != "":
		folder, err := qart.OpenLocalFolder(ref.Path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, qerr.New(qerr.CodeNotFound, err)
		}
		if err != nil {
			return nil, err
		}
		return folder, nil
	}
	return nil, qerr.Errorf(qerr.CodeValidation, "parent folder needs run_id or path")
}
