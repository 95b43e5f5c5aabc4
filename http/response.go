package http

import (
	"encoding/json"
	"net/http"

	"goTwitter/errs"
)

// response is the envelope every successful response is wrapped in.
type response struct {
	Ok      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondJSON writes a success envelope with the given status, message and
// payload.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(&response{
		Ok:      true,
		Message: message,
		Data:    data,
	})
	if err != nil {
		errs.LogError(r, err)
	}
}
