package schemas

import "github.com/quatton/qstage/pkg/qexit"

// OutcomeRequest reports what a finished run left behind
type OutcomeRequest struct {
	Fingerprint string             `json:"fingerprint,omitempty" doc:"Fingerprint of the manifest the run used"`
	Listing     []string           `json:"listing,omitempty" doc:"Files in the retrieved folder, read from object storage when omitted"`
	Temporary   []string           `json:"temporary,omitempty" doc:"Files retrieved for parsing only"`
	Finished    bool               `json:"finished,omitempty" doc:"Whether the run terminated normally"`
	Expect      qexit.Expectations `json:"expect,omitempty" doc:"Restart files the manifest asked for"`
}

// OutcomeResponse is the verdict on a finished run
type OutcomeResponse struct {
	OK               bool   `json:"ok" doc:"Whether every expected file was retrieved"`
	Status           int    `json:"status,omitempty" doc:"Exit code status"`
	Label            string `json:"label,omitempty" doc:"Exit code label"`
	Message          string `json:"message,omitempty" doc:"What went wrong"`
	Resumable        bool   `json:"resumable" doc:"Whether the run can be continued from its restart file"`
	CacheInvalidated bool   `json:"cache_invalidated" doc:"Whether a cached result was dropped"`
}
