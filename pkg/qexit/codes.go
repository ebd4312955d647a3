// Package qexit defines which files a finished job must leave behind and the
// numbered failure signals reported when they are missing or malformed.
package qexit

import (
	"errors"
	"fmt"
	"sort"
)

// ExitCode is a stable, numbered failure signal of a finished job.
type ExitCode struct {
	Status           int    `json:"status" yaml:"status"`
	Label            string `json:"label" yaml:"label"`
	Message          string `json:"message" yaml:"message"`
	InvalidatesCache bool   `json:"invalidates_cache" yaml:"invalidates_cache"`
}

func (c ExitCode) Error() string {
	return fmt.Sprintf("%s (%d): %s", c.Label, c.Status, c.Message)
}

// Resumable reports whether the job can be continued from what it left.
func (c ExitCode) Resumable() bool {
	return c.Status == CalculationDidNotFinish.Status
}

var (
	NoRetrievedFolder = ExitCode{
		Status:           350,
		Label:            "ERROR_NO_RETRIEVED_FOLDER",
		Message:          "the retrieved folder could not be accessed",
		InvalidatesCache: true,
	}
	LogFileMissing = ExitCode{
		Status:           351,
		Label:            "ERROR_LOG_FILE_MISSING",
		Message:          "the file with the lammps log was not found",
		InvalidatesCache: true,
	}
	FinalVariableFileMissing = ExitCode{
		Status:           352,
		Label:            "ERROR_FINAL_VARIABLE_FILE_MISSING",
		Message:          "the file with the final variables was not found",
		InvalidatesCache: true,
	}
	TrajectoryFileMissing = ExitCode{
		Status:           353,
		Label:            "ERROR_TRAJECTORY_FILE_MISSING",
		Message:          "the file with the trajectories was not found",
		InvalidatesCache: true,
	}
	StdoutFileMissing = ExitCode{
		Status:  354,
		Label:   "ERROR_STDOUT_FILE_MISSING",
		Message: "the stdout output file was not found",
	}
	StderrFileMissing = ExitCode{
		Status:  355,
		Label:   "ERROR_STDERR_FILE_MISSING",
		Message: "the stderr output file was not found",
	}
	RestartFileMissing = ExitCode{
		Status:  356,
		Label:   "ERROR_RESTART_FILE_MISSING",
		Message: "the file with the restart information was not found",
	}
	CalculationDidNotFinish = ExitCode{
		Status:  357,
		Label:   "ERROR_CALCULATION_DID_NOT_FINISH",
		Message: "the calculation did not finish properly but an intermediate restart file was found",
	}
	ParsingLogfile = ExitCode{
		Status:  1001,
		Label:   "ERROR_PARSING_LOGFILE",
		Message: "parsing the log file has failed",
	}
	ParsingFinalVariables = ExitCode{
		Status:  1002,
		Label:   "ERROR_PARSING_FINAL_VARIABLES",
		Message: "parsing the final variables file has failed",
	}
)

var table = map[int]ExitCode{}

func init() {
	for _, c := range []ExitCode{
		NoRetrievedFolder,
		LogFileMissing,
		FinalVariableFileMissing,
		TrajectoryFileMissing,
		StdoutFileMissing,
		StderrFileMissing,
		RestartFileMissing,
		CalculationDidNotFinish,
		ParsingLogfile,
		ParsingFinalVariables,
	} {
		table[c.Status] = c
	}
}

// Codes returns every exit code ordered by status.
func Codes() []ExitCode {
	out := make([]ExitCode, 0, len(table))
	for _, c := range table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// Lookup returns the exit code with the given status.
func Lookup(status int) (ExitCode, bool) {
	c, ok := table[status]
	return c, ok
}

// Failure is an exit code together with the error that caused it.
type Failure struct {
	Code ExitCode
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Code.Error()
	}
	return fmt.Sprintf("%s: %v", f.Code.Error(), f.Err)
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Code}
	}
	return []error{f.Code, f.Err}
}

// ParseFailure reports that an artifact was present but could not be parsed.
func ParseFailure(code ExitCode, err error) error {
	return &Failure{Code: code, Err: err}
}

// FromError extracts the exit code carried by err.
func FromError(err error) (ExitCode, bool) {
	var code ExitCode
	if errors.As(err, &code) {
		return code, true
	}
	return ExitCode{}, false
}
