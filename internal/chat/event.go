package chat

import (
	"encoding/json"
	"net/http"

	"marathon-chat/internal/storage"
)

// Event is an inbound request as delivered by the HTTP transport
type Event struct {
	HTTPMethod string `json:"httpMethod"`
	Body       string `json:"body"`
}

// Response is handed back to the HTTP transport as is
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

const (
	msgConfigMissing    = "Database configuration missing"
	msgMissingField     = "Username and text are required"
	msgTooLong          = "Username or text too long"
	msgMethodNotAllowed = "Method not allowed"
)

type errorBody struct {
	Error   string `json:"error"`
	Blocked bool   `json:"blocked,omitempty"`
}

type listBody struct {
	Messages []storage.Message `json:"messages"`
}

type createdBody struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func preflight() Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Max-Age":       "86400",
		},
		Body: "",
	}
}

// jsonResponse panics if payload cannot be marshaled, Handle recovers it as 500
func jsonResponse(status int, payload interface{}) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}

func errorResponse(status int, msg string) Response {
	return jsonResponse(status, errorBody{Error: msg})
}

// Failure converts an error raised outside of Handle, e.g. while reading the
// request, into the standard 500 response
func Failure(err error) Response {
	return errorResponse(http.StatusInternalServerError, err.Error())
}
