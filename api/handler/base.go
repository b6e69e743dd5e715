package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskline/backend/api/templates"
	"github.com/taskline/backend/api/transport"
	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) renderPage(ctx *fasthttp.RequestCtx, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.Render(&buf, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("page", name), zap.Error(err))
		ctx.Error("internal error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

func (h baseHandler) redirectWithFlash(ctx *fasthttp.RequestCtx, location, message string) {
	transport.SetFlash(ctx, message)
	ctx.Redirect(location, fasthttp.StatusFound)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// failUnavailable handles errors that are not part of the form conversation.
// A broken store is the only condition expected to land here.
func (h baseHandler) failUnavailable(ctx *fasthttp.RequestCtx, err error) {
	h.logger.Error("request failed", zap.Error(err))
	ctx.Error("service unavailable", fasthttp.StatusServiceUnavailable)
}

// userMessage extracts something safe to show on the page.
func userMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return "Something went wrong"
}
