package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/jobtracker-server/internal/model"
)

const maxJSONBodyBytes = 1 << 20

var errTrailingData = errors.New("trailing data after JSON value")

// decodeJSON reads a single JSON object from the request body into dst.
// An empty body leaves dst untouched. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(body)

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		var extra json.RawMessage
		if err = dec.Decode(&extra); errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			err = errTrailingData
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &model.APIError{Status: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	}
	return model.NewErrValidation("Invalid JSON body")
}
