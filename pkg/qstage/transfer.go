package qstage

// TransferKind names the kind of a Transfer.
type TransferKind string

const (
	KindLocalCopy     TransferKind = "local_copy"
	KindRemoteCopy    TransferKind = "remote_copy"
	KindRemoteSymlink TransferKind = "remote_symlink"
	KindWriteFile     TransferKind = "write_file"
)

// Transfer places one file in the working directory before execution.
// The set of implementations is closed.
type Transfer interface {
	Kind() TransferKind
	Destination() string
	isTransfer()
}

// LocalCopy copies a stored blob into the working directory.
type LocalCopy struct {
	SourceID   string `json:"source_id" yaml:"source_id"`
	SourceName string `json:"source_name" yaml:"source_name"`
	Dest       string `json:"dest" yaml:"dest"`
}

// RemoteCopy copies a file that already lives on the backend.
type RemoteCopy struct {
	BackendID  string `json:"backend_id" yaml:"backend_id"`
	RemotePath string `json:"remote_path" yaml:"remote_path"`
	Dest       string `json:"dest" yaml:"dest"`
}

// RemoteSymlink links a file that already lives on the backend.
type RemoteSymlink struct {
	BackendID  string `json:"backend_id" yaml:"backend_id"`
	RemotePath string `json:"remote_path" yaml:"remote_path"`
	Dest       string `json:"dest" yaml:"dest"`
}

// WriteFile writes content produced while preparing the job.
type WriteFile struct {
	Dest    string `json:"dest" yaml:"dest"`
	Content string `json:"content" yaml:"content"`
}

func (LocalCopy) Kind() TransferKind     { return KindLocalCopy }
func (RemoteCopy) Kind() TransferKind    { return KindRemoteCopy }
func (RemoteSymlink) Kind() TransferKind { return KindRemoteSymlink }
func (WriteFile) Kind() TransferKind     { return KindWriteFile }

func (t LocalCopy) Destination() string     { return t.Dest }
func (t RemoteCopy) Destination() string    { return t.Dest }
func (t RemoteSymlink) Destination() string { return t.Dest }
func (t WriteFile) Destination() string     { return t.Dest }

func (LocalCopy) isTransfer()     {}
func (RemoteCopy) isTransfer()    {}
func (RemoteSymlink) isTransfer() {}
func (WriteFile) isTransfer()     {}

// Retrieval collects files after execution.
type Retrieval interface {
	isRetrieval()
}

// Permanent is a file that is always retrieved and kept.
type Permanent struct {
	Name string `json:"name" yaml:"name"`
}

// Temporary is a best-effort pattern retrieved for parsing only.
type Temporary struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	DestDir string `json:"dest_dir" yaml:"dest_dir"`
}

func (Permanent) isRetrieval() {}
func (Temporary) isRetrieval() {}
