// Package qstage resolves how a single simulation job is staged: which restart
// file it continues from, which files are copied or linked into its working
// directory and which files are retrieved once it has run.
package qstage

// Blob is an uploaded file that is copied into the working directory.
type Blob struct {
	ID       string `json:"id" yaml:"id"`             // storage identifier of the blob
	Filename string `json:"filename" yaml:"filename"` // name the blob was uploaded with
}

// RemoteFolder is the working directory of a previous job on a backend.
type RemoteFolder interface {
	// BackendID identifies the backend the folder lives on.
	BackendID() string

	// RemotePath is the absolute path (or key prefix) of the folder.
	RemotePath() string

	// Listdir returns the names of the files in the folder.
	Listdir() []string
}

// Potential is the interatomic potential of a generated job.
type Potential interface {
	// AtomStyle is the atom style the structure file has to be written in.
	AtomStyle() string
}

// Request is everything known about one job attempt before it is staged.
// Structure is opaque to this package and only handed to the Serializer.
type Request struct {
	ID     string
	CodeID string

	Script     *string
	Structure  any
	Potential  Potential
	Parameters Parameters
	Settings   Settings

	RestartBlob  *Blob
	ParentFolder RemoteFolder

	Names FileNames
}

func (r *Request) hasScript() bool {
	return r.Script != nil
}

// missingInputs lists which of the structured inputs are absent.
func (r *Request) missingInputs() []string {
	var missing []string
	if r.Structure == nil {
		missing = append(missing, "structure")
	}
	if r.Potential == nil {
		missing = append(missing, "potential")
	}
	if r.Parameters == nil {
		missing = append(missing, "parameters")
	}
	return missing
}
