package response

import "encoding/json"

// Null is rendered as "data": null. A nil Data is omitted instead.
var Null = json.RawMessage("null")

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) ApiResponse {
	return ApiResponse{Status: true, Message: message, Data: data}
}

func Error(message string) ApiResponse {
	return ApiResponse{Status: false, Message: message}
}

// ValidationFailed is the only error envelope that carries structured data.
func ValidationFailed(message string, errs any) ApiResponse {
	return ApiResponse{Status: false, Message: message, Data: errs}
}
