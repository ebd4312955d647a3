package qstage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quatton/qstage/pkg/qerr"
)

type fakeFolder struct {
	backend string
	path    string
	files   []string
}

func (f fakeFolder) BackendID() string  { return f.backend }
func (f fakeFolder) RemotePath() string { return f.path }
func (f fakeFolder) Listdir() []string  { return append([]string{}, f.files...) }

type fakePotential struct {
	style   string
	content string
}

func (p fakePotential) AtomStyle() string { return p.style }

type fakeSerializer struct{}

func (fakeSerializer) SerializeStructure(structure any, atomStyle string) (string, error) {
	return fmt.Sprintf("# %s\n%v\n", atomStyle, structure), nil
}

func (fakeSerializer) SerializePotential(potential Potential) (string, error) {
	p, ok := potential.(fakePotential)
	if !ok {
		return "", errors.New("unexpected potential")
	}
	return p.content, nil
}

// fakeGenerator renders the file names it was given so tests can check them.
type fakeGenerator struct {
	calls []GenerateInput
	err   error
}

func (g *fakeGenerator) Generate(in GenerateInput) (string, error) {
	g.calls = append(g.calls, in)
	if g.err != nil {
		return "", g.err
	}
	lines := []string{
		"read_data " + in.StructureFilename,
		"include " + in.PotentialFilename,
		"dump 1 all custom 10 " + in.TrajectoryFilename,
		"print_vars " + in.VariablesFilename,
	}
	if in.ReadRestartFilename != "" {
		lines = append(lines, "read_restart "+in.ReadRestartFilename)
	}
	return strings.Join(lines, "\n"), nil
}

func scriptPtr(s string) *string {
	return &s
}

func generatedRequest() *Request {
	return &Request{
		ID:         "job-1",
		CodeID:     "lammps@cluster",
		Structure:  "Fe 0 0 0",
		Potential:  fakePotential{style: "atomic", content: "pair_style eam"},
		Parameters: Parameters{"control": map[string]any{"units": "metal"}},
	}
}

func isValidation(err error) bool {
	return qerr.IsCode(err, qerr.CodeValidation)
}
