package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qstage/pkg/qapi/services"
	"github.com/quatton/qstage/pkg/qerr"
)

func RegisterAPI(api huma.API, svcs *services.Services) {
	RegisterHealth(api)
	RegisterExitCodes(api, svcs)
	RegisterManifests(api, svcs)
	RegisterOutcome(api, svcs)
}

// statusError maps an error to the HTTP error for its code.
func statusError(err error) error {
	switch qerr.CodeOf(err) {
	case qerr.CodeValidation:
		return huma.Error422UnprocessableEntity(err.Error())
	case qerr.CodeConfiguration:
		return huma.Error409Conflict(err.Error())
	case qerr.CodeNotFound:
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
