package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/errutil"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const maxRequestBodySize = 10 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides details of unexpected errors from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	errutil.HandleError(r.Context(), "request failed", err)

	msg := http.StatusText(code)
	if code == http.StatusBadRequest {
		msg = err.Error()
	}
	writeJSON(w, r, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		logging.From(r.Context()).Error("fail to marshal response", "error", err)
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, raw)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return goerr.Wrap(types.ErrValidationFailed, "invalid request body", goerr.V("reason", err.Error()))
	}
	return nil
}
