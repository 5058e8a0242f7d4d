package server

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"marathon-chat/internal/chat"
	"marathon-chat/internal/storage"
	mytesting "marathon-chat/internal/testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
)

type memoryGateway struct {
	mu       sync.Mutex
	messages []storage.Message
}

func (g *memoryGateway) ListRecent(_ context.Context) ([]storage.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]storage.Message(nil), g.messages...), nil
}

func (g *memoryGateway) Insert(_ context.Context, m storage.NewMessage) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := int64(len(g.messages) + 1)
	g.messages = append(g.messages, storage.Message{ID: id, Username: m.Username, Text: m.Text, AvatarColor: m.AvatarColor})
	return id, nil
}

// slowGateway delays every insert, the request must still wait for it
type slowGateway struct {
	memoryGateway
	delay time.Duration
}

func (g *slowGateway) Insert(ctx context.Context, m storage.NewMessage) (int64, error) {
	time.Sleep(g.delay)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return g.memoryGateway.Insert(ctx, m)
}

func bootstrapChatHandler(t *testing.T, dsn string) (http.Handler, *memoryGateway) {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	gw := &memoryGateway{}
	h := chat.NewHandler(logger.Sugar(),
		chat.WithDSNSource(func() string { return dsn }),
		chat.WithGatewayFactory(func(string) chat.Gateway { return gw }),
		chat.WithColorChooser(chat.FixedColor("#F97316")),
	)

	return ChatHandler(logger.Sugar(), h), gw
}

func TestChatHandlerPost(t *testing.T) {
	t.Parallel()

	handler, gw := bootstrapChatHandler(t, "postgres://test")

	payload := bytes.NewBuffer([]byte(`{"username":"` + mytesting.RandString(10) + `","text":"Hi!"}`))
	req, err := http.NewRequest("POST", "/", payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	body, err := ioutil.ReadAll(rr.Body)
	require.NoError(t, err)

	// validating response JSON
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	require.NoError(t, err)
	id, err := v.Get("id").Int64()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "created", string(v.GetStringBytes("status")))

	require.Len(t, gw.messages, 1)
	require.Equal(t, "#F97316", gw.messages[0].AvatarColor)
}

func TestChatHandlerGet(t *testing.T) {
	t.Parallel()

	handler, gw := bootstrapChatHandler(t, "postgres://test")
	_, err := gw.Insert(context.Background(), storage.NewMessage{Username: "a", Text: "first", AvatarColor: "#0EA5E9"})
	require.NoError(t, err)
	_, err = gw.Insert(context.Background(), storage.NewMessage{Username: "b", Text: "second", AvatarColor: "#0EA5E9"})
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	v, err := fastjson.ParseBytes(rr.Body.Bytes())
	require.NoError(t, err)
	messages, err := v.Get("messages").Array()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "first", string(messages[0].GetStringBytes("text")))
	require.Equal(t, "second", string(messages[1].GetStringBytes("text")))
}

func TestChatHandlerOptionsWithoutConfig(t *testing.T) {
	t.Parallel()

	handler, _ := bootstrapChatHandler(t, "")

	req, err := http.NewRequest("OPTIONS", "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "", rr.Body.String())
	require.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "86400", rr.Header().Get("Access-Control-Max-Age"))
	require.Equal(t, "", rr.Header().Get("Content-Type"))
}

func TestChatHandlerConfigMissing(t *testing.T) {
	t.Parallel()

	handler, _ := bootstrapChatHandler(t, "")

	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, `{"error":"Database configuration missing"}`, rr.Body.String())
}

func TestChatHandlerMethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler, _ := bootstrapChatHandler(t, "postgres://test")

	req, err := http.NewRequest("DELETE", "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Equal(t, `{"error":"Method not allowed"}`, rr.Body.String())
}

func TestChatHandlerBodyTooLarge(t *testing.T) {
	t.Parallel()

	handler, gw := bootstrapChatHandler(t, "postgres://test")

	payload := strings.NewReader(`{"username":"a","text":"` + strings.Repeat("x", maxBodyBytes) + `"}`)
	req, err := http.NewRequest("POST", "/", payload)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, `{"error":"request body too large"}`, rr.Body.String())
	require.Empty(t, gw.messages)
}

func TestChatHandlerOptionsLargeBody(t *testing.T) {
	t.Parallel()

	handler, _ := bootstrapChatHandler(t, "postgres://test")

	req, err := http.NewRequest("OPTIONS", "/", strings.NewReader(strings.Repeat("x", maxBodyBytes+1)))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "", rr.Body.String())
	require.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestServerWaitsForSlowInsert(t *testing.T) {
	t.Parallel()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	gw := &slowGateway{delay: 50 * time.Millisecond}
	h := chat.NewHandler(logger.Sugar(),
		chat.WithDSNSource(func() string { return "postgres://test" }),
		chat.WithGatewayFactory(func(string) chat.Gateway { return gw }),
		chat.WithColorChooser(chat.FixedColor("#0EA5E9")),
	)

	srv, err := NewServer(logger.Sugar(), Handle("/", ChatHandler(logger.Sugar(), h)))
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/", strings.NewReader(`{"username":"alice","text":"slow but fine"}`))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, `{"id":1,"status":"created"}`, rr.Body.String())
	require.Len(t, gw.messages, 1)
}
