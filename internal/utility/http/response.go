package http

import (
	"encoding/json"
	"log"
	"net/http"

	"zetaexams/internal/utility"
)

type jsonResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(w http.ResponseWriter, data interface{}) {
	RespondStatus(w, http.StatusOK, "Success", data)
}

// RespondStatus sends a successful response with a custom status and message.
func RespondStatus(w http.ResponseWriter, code int, message string, data interface{}) {
	response := &jsonResponse{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	}
	sendJSONResponse(w, code, response)
}

// RespondError sends an error JSON response.
func RespondError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("Error: %v", err)
	}
	response := &jsonResponse{
		Success: false,
		Code:    code,
		Message: message,
	}
	sendJSONResponse(w, code, response)
}

// RespondWithError maps err onto its status. Server errors get a generic
// message; everything else reports err itself.
func RespondWithError(w http.ResponseWriter, err error) {
	code := utility.StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Server error"
	}
	RespondError(w, code, message, err)
}

func sendJSONResponse(w http.ResponseWriter, code int, response *jsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
