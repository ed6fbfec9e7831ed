package api

import (
	"encoding/json"
	"errors"
	"net/http"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/observability"
)

type errorBody struct {
	Code    fserr.Code `json:"code"`
	Message string     `json:"message"`
}

// writeError responds with the JSON form of err. Errors without a code are
// internal errors and their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = fserr.Wrap(fserr.ErrCodeTooLarge, err, "request body exceeds %d bytes", tooLarge.Limit)
	}

	code := fserr.GetCode(err)
	body := errorBody{Code: code, Message: fserr.UserMessage(err)}
	if code == "" {
		body = errorBody{Code: fserr.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, fserr.HTTPStatus(body.Code), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
