package services

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// RequestLogger logs every operation with its status at debug level.
func (s *Services) RequestLogger() func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)

		op := ctx.Operation()
		id := ""
		if op != nil {
			id = op.OperationID
		}
		s.Logger.Debug("handled request",
			"operation", id,
			"status", ctx.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
