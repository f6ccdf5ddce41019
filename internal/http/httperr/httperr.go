// Package httperr maps service errors onto huma problem responses.
package httperr

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/fistfuel/internal/app"
	applog "github.com/janisto/fistfuel/internal/platform/logging"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
	"github.com/janisto/fistfuel/internal/storage"
)

const (
	msgNotFound    = "profile not found"
	msgUnavailable = "数据保存失败，请重试"
	msgInternal    = "internal error"
)

// From converts err into a huma.StatusError. Unexpected errors are logged and
// reported as a generic 500 so internal details stay out of the response.
func From(ctx context.Context, err error) error {
	var vErr *profilesvc.ValidationError
	switch {
	case errors.As(err, &vErr):
		return huma.Error422UnprocessableEntity(vErr.Message, &huma.ErrorDetail{
			Message:  vErr.Message,
			Location: "body." + vErr.Field,
		})
	case errors.Is(err, profilesvc.ErrNotFound):
		return huma.Error404NotFound(msgNotFound)
	case errors.Is(err, profilesvc.ErrInvalidImport):
		return huma.Error400BadRequest("import document is not valid JSON")
	case errors.Is(err, app.ErrUnknownPage):
		return huma.Error422UnprocessableEntity("unknown page", &huma.ErrorDetail{
			Message:  err.Error(),
			Location: "body.page",
		})
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		applog.LogWarn(ctx, "storage unavailable", zap.Error(err))
		return huma.Error503ServiceUnavailable(msgUnavailable)
	default:
		applog.LogError(ctx, "unhandled service error", err)
		return huma.Error500InternalServerError(msgInternal)
	}
}
