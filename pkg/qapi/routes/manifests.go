package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qstage/pkg/qapi/schemas"
	"github.com/quatton/qstage/pkg/qapi/services"
	"github.com/quatton/qstage/pkg/qjob"
)

// PrepareManifestInput defines the input for preparing a manifest
type PrepareManifestInput struct {
	Body qjob.Job
}

// PrepareManifestOutput is the response for preparing a manifest
type PrepareManifestOutput struct {
	Body schemas.ManifestResponse
}

func RegisterManifests(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "prepare-manifest",
		Method:      http.MethodPost,
		Path:        "/api/manifests",
		Summary:     "Prepare a manifest",
		Description: "Resolve the input mode and restart source of a job and build its submission manifest",
		Tags:        []string{"Manifests"},
	}, func(ctx context.Context, input *PrepareManifestInput) (*PrepareManifestOutput, error) {
		if svcs == nil {
			return nil, huma.Error503ServiceUnavailable("manifest preparation not configured")
		}

		p, err := svcs.Prepare(ctx, input.Body)
		if err != nil {
			return nil, statusError(err)
		}

		return &PrepareManifestOutput{Body: schemas.ManifestResponse{
			JobID:       p.JobID,
			Fingerprint: p.Fingerprint,
			Claimed:     p.Claimed,
			Cached:      p.Cached,
			Manifest:    *p.Manifest,
		}}, nil
	})
}
