package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qstage/pkg/qapi/schemas"
	"github.com/quatton/qstage/pkg/qapi/services"
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qstage"
)

// ExitCodesOutput is the response for listing exit codes
type ExitCodesOutput struct {
	Body schemas.ExitCodesResponse
}

func RegisterExitCodes(api huma.API, svcs *services.Services) {
	names := qstage.DefaultFileNames()
	if svcs != nil {
		names = svcs.Names
	}

	huma.Register(api, huma.Operation{
		OperationID: "list-exit-codes",
		Method:      http.MethodGet,
		Path:        "/api/exit-codes",
		Summary:     "List exit codes",
		Description: "List the failure signals of a finished job and the outputs it must produce",
		Tags:        []string{"Contract"},
	}, func(ctx context.Context, input *struct{}) (*ExitCodesOutput, error) {
		return &ExitCodesOutput{Body: schemas.ExitCodesResponse{
			Codes:     qexit.Codes(),
			Artifacts: qexit.Contract(names),
		}}, nil
	})
}
