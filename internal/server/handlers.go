package server

import (
	"errors"
	"io"
	"net/http"

	"marathon-chat/internal/chat"

	"go.uber.org/zap"
)

// maxBodyBytes bounds the request body read for the chat handler
const maxBodyBytes = 1 << 20

// chatHandler translates HTTP requests into chat events and writes back the responses
type chatHandler struct {
	logger *zap.SugaredLogger
	h      *chat.Handler
}

// ChatHandler exposes h over net/http
func ChatHandler(logger *zap.SugaredLogger, h *chat.Handler) http.Handler {
	return chatHandler{logger: logger, h: h}
}

func (c chatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		resp chat.Response
		body []byte
		err  error
	)

	// preflight never looks at the body
	if r.Method != http.MethodOptions {
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = errors.New("request body too large")
		}
		resp = chat.Failure(err)
	} else {
		resp = c.h.Handle(r.Context(), chat.Event{HTTPMethod: r.Method, Body: string(body)})
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		c.logger.Errorf("writing response body to ResponseWriter: %v", err)
	}
}
