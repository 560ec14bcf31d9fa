package dto

// Response is the success envelope shared by all endpoints.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success builds a success envelope.
func Success(message string, data any) Response {
	return Response{Status: "success", Message: message, Data: data}
}

// FieldError carries one per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope. No internal error detail
// crosses this boundary.
type ErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error builds an error envelope.
func Error(code, message string) ErrorResponse {
	return ErrorResponse{Status: "error", Message: message, Code: code}
}
