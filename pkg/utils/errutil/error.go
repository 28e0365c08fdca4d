package errutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

// IsExpected reports whether err is an outcome the caller caused, such as a
// missing record or a rejected payload.
func IsExpected(err error) bool {
	return errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrValidationFailed) ||
		errors.Is(err, types.ErrUnauthorized)
}

// HandleError logs err. Unexpected errors are also sent to Sentry with the
// goerr values attached.
func HandleError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	if IsExpected(err) {
		logging.From(ctx).Warn(msg, "error", err)
		return
	}

	reqID, _ := logging.CtxRequestID(ctx)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", string(reqID))
		if goErr := goerr.Unwrap(err); goErr != nil {
			for k, v := range goErr.Values() {
				scope.SetExtra(fmt.Sprintf("%v", k), v)
			}
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error(msg,
		"error", err,
		"sentry.EventID", evID,
	)
}
