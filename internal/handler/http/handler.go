package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/pkg/response"
)

// writeError maps an error onto the response envelope, keeping the AppError
// code visible to clients.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if appErr, ok := errors.As(err); ok {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			log.Error().Err(appErr).Msg("Request failed")
		}
		msg := appErr.Message
		// AI/ASR failures surface the upstream message to the caller.
		if appErr.Code == errors.ErrAIService && appErr.Err != nil {
			msg = msg + ": " + appErr.Err.Error()
		}
		response.Error(w, appErr.HTTPStatus(), &response.ErrorBody{
			Code:    string(appErr.Code),
			Message: msg,
			Details: appErr.Details,
		})
		return
	}

	log.Error().Err(err).Msg("Internal server error")
	response.InternalError(w, "internal server error")
}
