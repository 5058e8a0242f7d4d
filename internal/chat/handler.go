package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marathon-chat/internal/metrics"
	"marathon-chat/internal/moderation"
	"marathon-chat/internal/storage"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"
)

// DefaultRejectionMessage is returned with 403 when no other message is configured
const DefaultRejectionMessage = "Сообщение содержит недопустимые выражения"

// Gateway is the persistence side of the handler, implemented by storage.Store
type Gateway interface {
	ListRecent(ctx context.Context) ([]storage.Message, error)
	Insert(ctx context.Context, m storage.NewMessage) (int64, error)
}

// GatewayFactory binds a Gateway to the connection string read for the current request
type GatewayFactory func(dsn string) Gateway

// Moderator decides whether a text must not be published
type Moderator interface {
	IsProfane(text string) bool
}

// Handler serves the message board: GET lists recent messages, POST publishes one
type Handler struct {
	logger    *zap.SugaredLogger
	dsn       func() string
	open      GatewayFactory
	moderator Moderator
	colors    ColorChooser
	rejection string
	metrics   *metrics.Collector
	parsers   fastjson.ParserPool
}

// NewHandler returns a Handler reading DATABASE_URL from the environment, persisting
// through storage.Store over a fresh connection per request and moderating with
// the built-in profanity patterns. Options override any of those.
func NewHandler(logger *zap.SugaredLogger, opts ...Option) *Handler {
	dialer := storage.NewConnDialer(logger.Desugar())

	h := &Handler{
		logger: logger,
		dsn:    storage.DSNFromEnv,
		open: func(dsn string) Gateway {
			return storage.New(logger, dsn, dialer)
		},
		moderator: moderation.NewFilter(),
		colors:    NewRandomChooser(time.Now().UnixNano()),
		rejection: DefaultRejectionMessage,
	}

	for _, o := range opts {
		o.apply(h)
	}

	return h
}

// Handle never fails: every outcome, panics included, becomes a Response.
// Methods are matched case-sensitively, an empty one is treated as GET.
func (h *Handler) Handle(ctx context.Context, e Event) (resp Response) {
	method := e.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorf("Recovered from panic while handling %s: %v", method, r)
			resp = errorResponse(http.StatusInternalServerError, fmt.Sprint(r))
		}
		h.metrics.ObserveResponse(method, resp.StatusCode)
	}()

	if method == http.MethodOptions {
		return preflight()
	}

	dsn := h.dsn()
	if dsn == "" {
		h.logger.Error("DATABASE_URL is not set")
		return errorResponse(http.StatusInternalServerError, msgConfigMissing)
	}

	switch method {
	case http.MethodGet:
		return h.listMessages(ctx, h.open(dsn))
	case http.MethodPost:
		return h.createMessage(ctx, h.open(dsn), e.Body)
	default:
		return errorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *Handler) listMessages(ctx context.Context, gw Gateway) Response {
	messages, err := gw.ListRecent(ctx)
	if err != nil {
		return h.internalError(err)
	}
	if messages == nil {
		messages = []storage.Message{}
	}

	return jsonResponse(http.StatusOK, listBody{Messages: messages})
}

func (h *Handler) createMessage(ctx context.Context, gw Gateway, body string) Response {
	username, text, err := h.parseCreateRequest(body)
	if err != nil {
		return h.internalError(err)
	}
	username, text = strings.TrimSpace(username), strings.TrimSpace(text)

	switch err := Validate(username, text); {
	case errors.Is(err, ErrMissingField):
		return errorResponse(http.StatusBadRequest, msgMissingField)
	case errors.Is(err, ErrTooLong):
		return errorResponse(http.StatusBadRequest, msgTooLong)
	case err != nil:
		return h.internalError(err)
	}

	if h.moderator.IsProfane(text) {
		h.logger.Infof("Blocked message from %q", username)
		h.metrics.MessageBlocked()
		return jsonResponse(http.StatusForbidden, errorBody{Error: h.rejection, Blocked: true})
	}

	id, err := gw.Insert(ctx, storage.NewMessage{
		Username:    username,
		Text:        text,
		AvatarColor: h.colors.Choose(),
	})
	if err != nil {
		return h.internalError(err)
	}
	h.metrics.MessageCreated()

	return jsonResponse(http.StatusCreated, createdBody{ID: id, Status: "created"})
}

// parseCreateRequest extracts username and text, an absent field is an empty string
func (h *Handler) parseCreateRequest(body string) (string, string, error) {
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	parser := h.parsers.Get()
	defer h.parsers.Put(parser)

	v, err := parser.Parse(body)
	if err != nil {
		return "", "", err
	}

	obj, err := v.Object()
	if err != nil {
		return "", "", err
	}

	username, err := stringField(obj, "username")
	if err != nil {
		return "", "", err
	}

	text, err := stringField(obj, "text")
	if err != nil {
		return "", "", err
	}

	return username, text, nil
}

func stringField(obj *fastjson.Object, name string) (string, error) {
	v := obj.Get(name)
	if v == nil {
		return "", nil
	}
	if v.Type() != fastjson.TypeString {
		return "", fmt.Errorf("field %q must be a string", name)
	}

	b, err := v.StringBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Handler) internalError(err error) Response {
	if storage.IsStoreError(err) {
		h.logger.Errorf("Store failure: %v", err)
	} else {
		h.logger.Errorf("Unexpected failure: %v", err)
	}
	return errorResponse(http.StatusInternalServerError, err.Error())
}
