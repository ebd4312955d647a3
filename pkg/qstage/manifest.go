package qstage

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// Invocation describes how the executable is started.
type Invocation struct {
	CodeID string   `json:"code_id" yaml:"code_id"`
	Args   []string `json:"args" yaml:"args"`
	Stdout string   `json:"stdout" yaml:"stdout"`
}

// Manifest is the complete description of how one job is staged and
// collected. It is built once and handed to the execution backend.
type Manifest struct {
	LocalCopies    []LocalCopy     `json:"local_copy_list" yaml:"local_copy_list"`
	RemoteCopies   []RemoteCopy    `json:"remote_copy_list" yaml:"remote_copy_list"`
	RemoteSymlinks []RemoteSymlink `json:"remote_symlink_list" yaml:"remote_symlink_list"`
	Writes         []WriteFile     `json:"writes" yaml:"writes"`

	Retrieve          []Permanent `json:"retrieve_list" yaml:"retrieve_list"`
	RetrieveTemporary []Temporary `json:"retrieve_temporary_list" yaml:"retrieve_temporary_list"`

	RestartFilename string     `json:"restart_filename,omitempty" yaml:"restart_filename,omitempty"`
	InputFilename   string     `json:"input_filename" yaml:"input_filename"`
	InputText       string     `json:"input_text" yaml:"input_text"`
	Invocation      Invocation `json:"invocation" yaml:"invocation"`
}

// BuildManifest merges the restart transfers with the structure and potential
// files and derives what has to be retrieved. structure and potential are nil
// for verbatim jobs.
func BuildManifest(plan RestartPlan, structure, potential Transfer, params Parameters, opts Options, names FileNames) (Manifest, error) {
	names = names.WithDefaults()
	m := Manifest{
		LocalCopies:       []LocalCopy{},
		RemoteCopies:      []RemoteCopy{},
		RemoteSymlinks:    []RemoteSymlink{},
		Writes:            []WriteFile{},
		Retrieve:          []Permanent{},
		RetrieveTemporary: []Temporary{},
		RestartFilename:   plan.Filename,
		InputFilename:     names.Input,
	}

	transfers := append([]Transfer{}, plan.Transfers...)
	for _, t := range []Transfer{structure, potential} {
		if t != nil {
			transfers = append(transfers, t)
		}
	}

	for _, t := range transfers {
		switch t := t.(type) {
		case LocalCopy:
			m.LocalCopies = append(m.LocalCopies, t)
		case RemoteCopy:
			m.RemoteCopies = append(m.RemoteCopies, t)
		case RemoteSymlink:
			m.RemoteSymlinks = append(m.RemoteSymlinks, t)
		case WriteFile:
			m.Writes = append(m.Writes, t)
		default:
			return Manifest{}, fmt.Errorf("unsupported transfer %T", t)
		}
	}

	if plan.Continues() && !m.places(plan.Filename) {
		return Manifest{}, fmt.Errorf("restart file %q is not placed by any transfer", plan.Filename)
	}

	for _, name := range []string{names.Output, names.Log, names.Variables, names.Trajectory} {
		m.Retrieve = append(m.Retrieve, Permanent{Name: name})
	}

	policy := params.RestartPolicy()
	if opts.StoreRestart && policy.PrintFinal {
		m.Retrieve = append(m.Retrieve, Permanent{Name: names.Restart})
	}
	if opts.StoreRestart && policy.PrintIntermediate {
		m.RetrieveTemporary = append(m.RetrieveTemporary, Temporary{
			Pattern: names.Restart + "*",
			DestDir: ".",
		})
	}

	return m, nil
}

// places reports whether a copy or link puts a file named dest in place.
func (m Manifest) places(dest string) bool {
	for _, t := range m.Transfers() {
		if t.Kind() != KindWriteFile && t.Destination() == dest {
			return true
		}
	}
	return false
}

// Transfers returns every transfer grouped by kind.
func (m Manifest) Transfers() []Transfer {
	out := make([]Transfer, 0, len(m.LocalCopies)+len(m.RemoteCopies)+len(m.RemoteSymlinks)+len(m.Writes))
	for _, t := range m.LocalCopies {
		out = append(out, t)
	}
	for _, t := range m.RemoteCopies {
		out = append(out, t)
	}
	for _, t := range m.RemoteSymlinks {
		out = append(out, t)
	}
	for _, t := range m.Writes {
		out = append(out, t)
	}
	return out
}

// Retrievals returns every retrieval, permanent ones first.
func (m Manifest) Retrievals() []Retrieval {
	out := make([]Retrieval, 0, len(m.Retrieve)+len(m.RetrieveTemporary))
	for _, r := range m.Retrieve {
		out = append(out, r)
	}
	for _, r := range m.RetrieveTemporary {
		out = append(out, r)
	}
	return out
}

// Fingerprint identifies the manifest by content. Identical requests give
// identical fingerprints.
func (m Manifest) Fingerprint() (string, error) {
	h, err := hashstructure.Hash(m, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing manifest: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}
