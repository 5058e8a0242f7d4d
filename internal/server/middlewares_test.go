package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"marathon-chat/internal/storage/zapadapter"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLog(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)

	var requestID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := zapadapter.RequestIDFromContext(r.Context())
		require.True(t, ok)
		requestID = id
		w.WriteHeader(http.StatusTeapot)
	})

	req, err := http.NewRequest("GET", "/?a=b", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	log(next, zap.New(core)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.NotEmpty(t, requestID)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "incoming http request", entries[0].Message)
	require.Equal(t, requestID, entries[0].ContextMap()["id"])
	require.Equal(t, "/?a=b", entries[0].ContextMap()["uri"])
	require.Equal(t, "http request served", entries[1].Message)
	require.Equal(t, int64(http.StatusTeapot), entries[1].ContextMap()["status"])
}
