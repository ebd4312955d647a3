package qstage

import "github.com/quatton/qstage/pkg/qerr"

// Default file names used inside the job working directory.
const (
	DefaultInputFilename       = "input.in"
	DefaultStructureFilename   = "structure.dat"
	DefaultPotentialFilename   = "potential.dat"
	DefaultLogFilename         = "log.lammps"
	DefaultOutputFilename      = "lammps_output"
	DefaultTrajectoryFilename  = "qstage.trajectory.dump"
	DefaultVariablesFilename   = "qstage.yaml"
	DefaultRestartFilename     = "lammps.restart"
	DefaultReadRestartFilename = "qstage.restart"
	DefaultStderrFilename      = "_scheduler-stderr.txt"

	// ParentRestartFilename is where a restart file taken from a parent
	// folder is placed. It is not configurable.
	ParentRestartFilename = "input_lammps.restart"
)

// FileNames holds the configurable names of the files a job reads and writes.
type FileNames struct {
	Input       string `mapstructure:"input" yaml:"input" json:"input"`
	Structure   string `mapstructure:"structure" yaml:"structure" json:"structure"`
	Potential   string `mapstructure:"potential" yaml:"potential" json:"potential"`
	Log         string `mapstructure:"log" yaml:"log" json:"log"`
	Output      string `mapstructure:"output" yaml:"output" json:"output"`
	Trajectory  string `mapstructure:"trajectory" yaml:"trajectory" json:"trajectory"`
	Variables   string `mapstructure:"variables" yaml:"variables" json:"variables"`
	Restart     string `mapstructure:"restart" yaml:"restart" json:"restart"`
	ReadRestart string `mapstructure:"read_restart" yaml:"read_restart" json:"read_restart"`
	Stderr      string `mapstructure:"stderr" yaml:"stderr" json:"stderr"`
}

// DefaultFileNames returns the file names used when nothing is overridden.
func DefaultFileNames() FileNames {
	return FileNames{
		Input:       DefaultInputFilename,
		Structure:   DefaultStructureFilename,
		Potential:   DefaultPotentialFilename,
		Log:         DefaultLogFilename,
		Output:      DefaultOutputFilename,
		Trajectory:  DefaultTrajectoryFilename,
		Variables:   DefaultVariablesFilename,
		Restart:     DefaultRestartFilename,
		ReadRestart: DefaultReadRestartFilename,
		Stderr:      DefaultStderrFilename,
	}
}

// WithDefaults returns a copy of n with every empty name replaced by its default.
func (n FileNames) WithDefaults() FileNames {
	d := DefaultFileNames()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&n.Input, d.Input)
	fill(&n.Structure, d.Structure)
	fill(&n.Potential, d.Potential)
	fill(&n.Log, d.Log)
	fill(&n.Output, d.Output)
	fill(&n.Trajectory, d.Trajectory)
	fill(&n.Variables, d.Variables)
	fill(&n.Restart, d.Restart)
	fill(&n.ReadRestart, d.ReadRestart)
	fill(&n.Stderr, d.Stderr)
	return n
}

// Validate rejects name sets where two transfers would land on the same file.
// The read-restart name must differ from the fixed parent restart name since
// a blob and a parent folder may both be placed.
func (n FileNames) Validate() error {
	n = n.WithDefaults()
	if n.ReadRestart == ParentRestartFilename {
		return qerr.Errorf(qerr.CodeConfiguration,
			"read_restart file name %q is reserved for restart files taken from a parent folder",
			n.ReadRestart)
	}
	return nil
}
