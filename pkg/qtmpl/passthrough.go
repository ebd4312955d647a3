package qtmpl

import (
	"fmt"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qstage"
)

// TextPotential is a potential given as LAMMPS commands.
type TextPotential struct {
	Style string `json:"atom_style" yaml:"atom_style"`
	Text  string `json:"text" yaml:"text"`
}

// AtomStyle implements qstage.Potential.
func (p TextPotential) AtomStyle() string {
	return p.Style
}

// Passthrough serializes structures and potentials that are already text.
type Passthrough struct{}

func (Passthrough) SerializeStructure(structure any, _ string) (string, error) {
	switch s := structure.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", qerr.Errorf(qerr.CodeValidation, "structure of type %T is not LAMMPS data text", structure)
}

func (Passthrough) SerializePotential(potential qstage.Potential) (string, error) {
	switch p := potential.(type) {
	case TextPotential:
		return p.Text, nil
	case *TextPotential:
		return p.Text, nil
	}
	return "", qerr.Errorf(qerr.CodeValidation, "potential of type %T cannot be written as text", potential)
}

var _ qstage.Serializer = Passthrough{}
