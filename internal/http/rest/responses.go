package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
)

// ServerResponse is the envelope every endpoint returns.
type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	if tc != nil {
		log.Printf("request %s: %s: %v", tc.RequestID, message, err)
	} else {
		log.Printf("%s: %v", message, err)
	}
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	log.Printf("%s: %v", message, err)

	resp := ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, payload, resp.StatusCode)
}
