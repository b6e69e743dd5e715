package transport

import (
	"net/url"

	"github.com/valyala/fasthttp"
)

// flashCookie carries a one-shot notice shown on the next rendered page.
const flashCookie = "flash"

// SetFlash queues a notice for the next page render.
func SetFlash(ctx *fasthttp.RequestCtx, message string) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(flashCookie)
	c.SetValue(url.QueryEscape(message))
	c.SetPath("/")
	c.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(c)
}

// PopFlash returns the queued notice, if any, and clears it.
func PopFlash(ctx *fasthttp.RequestCtx) string {
	raw := string(ctx.Request.Header.Cookie(flashCookie))
	if raw == "" {
		return ""
	}

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(flashCookie)
	c.SetValue("")
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetMaxAge(-1)
	ctx.Response.Header.SetCookie(c)

	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
