package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/internal/errs"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the repository error taxonomy onto HTTP statuses. Unknown
// errors are logged and surfaced as an opaque 500.
func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	var e *errs.Error
	if errors.As(err, &e) {
		status := http.StatusInternalServerError
		switch e.Kind {
		case errs.KindNotFound:
			status = http.StatusNotFound
		case errs.KindConflict:
			status = http.StatusConflict
		case errs.KindValidation:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: errorBody{Kind: string(e.Kind), Message: e.Message}})
		return
	}
	log.Error("unhandled error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: errorBody{Kind: string(errs.KindInternal), Message: "internal error"},
	})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Validation("malformed request body", err)
	}
	return nil
}
