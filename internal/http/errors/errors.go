// Package errors provides request-scoped error logging helpers shared by the
// HTTP handlers. Clients receive generic messages; details stay in the logs.
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log.Error().
		Str("request_id", middleware.GetReqID(r.Context())).
		Err(err).
		Msg(message)

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	log.Warn().
		Str("request_id", middleware.GetReqID(r.Context())).
		Err(err).
		Msg("bad request")

	http.Error(w, clientMessage, http.StatusBadRequest)
}

func LogError(r *http.Request, message string, err error) {
	log.Error().
		Str("request_id", middleware.GetReqID(r.Context())).
		Err(err).
		Msg(message)
}

func LogWarn(r *http.Request, message string, err error) {
	log.Warn().
		Str("request_id", middleware.GetReqID(r.Context())).
		Err(err).
		Msg(message)
}
