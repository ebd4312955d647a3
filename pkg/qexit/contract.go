package qexit

import (
	"path"
	"slices"

	"github.com/quatton/qstage/pkg/qstage"
)

// Artifact is an output a finished job is expected to produce.
type Artifact struct {
	Output   string `json:"output" yaml:"output"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Required bool   `json:"required" yaml:"required"`
	// Missing is reported when File is absent, nil when absence is not a failure.
	Missing *ExitCode `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Contract lists the outputs of a job and the files they are read from.
func Contract(names qstage.FileNames) []Artifact {
	names = names.WithDefaults()
	return []Artifact{
		{Output: "results", File: names.Log, Required: true, Missing: ref(LogFileMissing)},
		{Output: "results", File: names.Variables, Required: true, Missing: ref(FinalVariableFileMissing)},
		{Output: "trajectories", File: names.Trajectory, Required: true, Missing: ref(TrajectoryFileMissing)},
		{Output: "time_dependent_computes", File: names.Log, Required: true, Missing: ref(LogFileMissing)},
		{Output: "stdout", File: names.Output, Required: true, Missing: ref(StdoutFileMissing)},
		{Output: "stderr", File: names.Stderr, Required: true, Missing: ref(StderrFileMissing)},
		{Output: "restartfile", File: names.Restart, Required: false},
		{Output: "structure", Required: false},
	}
}

// Expectations are the restart files a manifest asked to be retrieved.
type Expectations struct {
	FinalRestart         string   `json:"final_restart,omitempty" yaml:"final_restart,omitempty"`
	IntermediatePatterns []string `json:"intermediate_patterns,omitempty" yaml:"intermediate_patterns,omitempty"`
}

// Expect derives the restart expectations of a manifest.
func Expect(m qstage.Manifest, names qstage.FileNames) Expectations {
	names = names.WithDefaults()
	var e Expectations
	for _, r := range m.Retrieve {
		if r.Name == names.Restart {
			e.FinalRestart = r.Name
		}
	}
	for _, r := range m.RetrieveTemporary {
		e.IntermediatePatterns = append(e.IntermediatePatterns, r.Pattern)
	}
	return e
}

// Outcome is what was retrieved after a job ran.
type Outcome struct {
	// Listing holds the files in the retrieved folder.
	Listing []string
	// ListErr is set when the retrieved folder could not be read.
	ListErr error
	// Temporary holds the files retrieved for parsing only.
	Temporary []string
	// Finished is set when the run terminated normally.
	Finished bool
}

// Check compares an outcome with the contract and returns the first failure,
// or nil when every expected file is there.
func Check(names qstage.FileNames, expect Expectations, o Outcome) error {
	if o.ListErr != nil {
		return &Failure{Code: NoRetrievedFolder, Err: o.ListErr}
	}

	seen := map[string]bool{}
	for _, a := range Contract(names) {
		if !a.Required || a.Missing == nil || seen[a.File] {
			continue
		}
		seen[a.File] = true
		if !slices.Contains(o.Listing, a.File) {
			return *a.Missing
		}
	}

	if !o.Finished && matchesAny(expect.IntermediatePatterns, o.Temporary) {
		return CalculationDidNotFinish
	}
	if expect.FinalRestart != "" && !slices.Contains(o.Listing, expect.FinalRestart) {
		return RestartFileMissing
	}
	return nil
}

func matchesAny(patterns, files []string) bool {
	for _, p := range patterns {
		for _, f := range files {
			if ok, err := path.Match(p, f); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func ref(c ExitCode) *ExitCode {
	return &c
}
