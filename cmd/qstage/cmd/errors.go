package cmd

import (
	"fmt"
	"os"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qexit"
)

// exitIfError prints err with guidance for its code and exits.
func exitIfError(err error) {
	if err == nil {
		return
	}
	if code, ok := qexit.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "%s\n", failureStyle.Render(code.Error()))
		os.Exit(1)
	}
	switch {
	case qerr.IsCode(err, qerr.CodeValidation):
		fmt.Fprintf(os.Stderr, "invalid job: %v\n", err)
	case qerr.IsCode(err, qerr.CodeConfiguration):
		fmt.Fprintf(os.Stderr, "configuration problem: %v\n(check qstage.yaml, QSTAGE_* variables and the job's settings)\n", err)
	case qerr.IsCode(err, qerr.CodeNotFound):
		fmt.Fprintf(os.Stderr, "not found: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}
