package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is returned by endpoints that only acknowledge an action.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON encodes body as the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes {"error": message} with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}
