package qstage

import (
	"strings"

	"github.com/quatton/qstage/pkg/qerr"
)

// Mode tells whether the input file is taken verbatim or generated.
type Mode int

const (
	ModeVerbatim Mode = iota + 1
	ModeGenerated
)

func (m Mode) String() string {
	switch m {
	case ModeVerbatim:
		return "verbatim"
	case ModeGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// ResolveMode decides how the input file of req is produced. A script always
// wins; otherwise structure, potential and parameters must all be present.
func ResolveMode(req *Request) (Mode, error) {
	if req == nil {
		return 0, qerr.Errorf(qerr.CodeValidation, "no request given")
	}
	if req.hasScript() {
		return ModeVerbatim, nil
	}
	if missing := req.missingInputs(); len(missing) > 0 {
		return 0, qerr.Errorf(qerr.CodeValidation,
			"unless `script` is specified the inputs `structure`, `potential` and `parameters` have to be specified (missing: %s)",
			strings.Join(missing, ", "))
	}
	return ModeGenerated, nil
}
