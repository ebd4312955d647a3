package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qstage/pkg/qapi/schemas"
	"github.com/quatton/qstage/pkg/qapi/services"
)

// ReportOutcomeInput defines the input for reporting a run outcome
type ReportOutcomeInput struct {
	RunID string `path:"runId" doc:"Run ID"`
	Body  schemas.OutcomeRequest
}

// ReportOutcomeOutput is the response for reporting a run outcome
type ReportOutcomeOutput struct {
	Body schemas.OutcomeResponse
}

func RegisterOutcome(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "report-outcome",
		Method:      http.MethodPost,
		Path:        "/api/runs/{runId}/outcome",
		Summary:     "Check a finished run",
		Description: "Compare the retrieved files of a run with the output contract and update the result cache",
		Tags:        []string{"Runs"},
	}, func(ctx context.Context, input *ReportOutcomeInput) (*ReportOutcomeOutput, error) {
		if svcs == nil {
			return nil, huma.Error503ServiceUnavailable("outcome checks not configured")
		}
		if input.RunID == "" {
			return nil, huma.Error400BadRequest("run ID is required")
		}

		v, err := svcs.Check(ctx, input.RunID, services.Report{
			Fingerprint: input.Body.Fingerprint,
			Listing:     input.Body.Listing,
			Temporary:   input.Body.Temporary,
			Finished:    input.Body.Finished,
			Expect:      input.Body.Expect,
		})
		if err != nil {
			return nil, statusError(err)
		}

		resp := &ReportOutcomeOutput{}
		resp.Body.OK = v.Code == nil
		resp.Body.CacheInvalidated = v.CacheInvalidated
		if v.Code != nil {
			resp.Body.Status = v.Code.Status
			resp.Body.Label = v.Code.Label
			resp.Body.Message = v.Detail
			resp.Body.Resumable = v.Code.Resumable()
		}
		return resp, nil
	})
}
