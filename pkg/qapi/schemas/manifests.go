package schemas

import (
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qstage"
)

// ManifestResponse is a prepared manifest
type ManifestResponse struct {
	JobID       string          `json:"job_id" doc:"Job attempt ID"`
	Fingerprint string          `json:"fingerprint" doc:"Content hash of the manifest, used as cache key"`
	Claimed     bool            `json:"claimed" doc:"Whether this job may run the manifest"`
	Cached      *qexit.Result   `json:"cached,omitempty" doc:"Earlier successful run of the same manifest"`
	Manifest    qstage.Manifest `json:"manifest" doc:"Transfers, retrievals and invocation"`
}

// ExitCodesResponse lists the failure signals and expected outputs
type ExitCodesResponse struct {
	Codes     []qexit.ExitCode `json:"codes" doc:"Exit codes ordered by status"`
	Artifacts []qexit.Artifact `json:"artifacts" doc:"Outputs a finished job must produce"`
}
