package transport

import (
	"testing"

	"github.com/valyala/fasthttp"
)

func postCtx(body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBodyString(body)
	return &ctx
}

func TestParseLoginForm(t *testing.T) {
	form := ParseLoginForm(postCtx("name=alice1&password=secret1"))
	if form.Name != "alice1" || form.Password != "secret1" {
		t.Errorf("got %+v", form)
	}
}

func TestParseRegisterForm(t *testing.T) {
	form := ParseRegisterForm(postCtx("name=alice1&email=alice%40x.com&password=secret1&confirm=secret1"))
	if form.Name != "alice1" || form.Email != "alice@x.com" || form.Password != "secret1" || form.Confirm != "secret1" {
		t.Errorf("got %+v", form)
	}
}

func TestParseTaskForm(t *testing.T) {
	form := ParseTaskForm(postCtx("name=Pay+bills&due_date=12%2F01%2F2020&priority=5"))
	if form.Name != "Pay bills" || form.DueDate != "12/01/2020" || form.Priority != 5 {
		t.Errorf("got %+v", form)
	}
}

func TestParseTaskForm_BadPriority(t *testing.T) {
	form := ParseTaskForm(postCtx("name=Pay+bills&due_date=12%2F01%2F2020&priority=high"))
	if form.Priority != 0 {
		t.Errorf("unparseable priority = %d, want 0", form.Priority)
	}
}

func TestFlash_SetAndPop(t *testing.T) {
	var set fasthttp.RequestCtx
	SetFlash(&set, "Task marked complete.")

	// Carry the cookie over as the browser would on the next request.
	value := cookieValue(t, &set, "flash")
	var next fasthttp.RequestCtx
	next.Request.Header.SetCookie("flash", value)

	if got := PopFlash(&next); got != "Task marked complete." {
		t.Errorf("flash = %q", got)
	}
	// Pop must clear the cookie.
	cleared := cookieValue(t, &next, "flash")
	if cleared != "" {
		t.Errorf("flash cookie not cleared, value %q", cleared)
	}
}

func TestPopFlash_Empty(t *testing.T) {
	var ctx fasthttp.RequestCtx
	if got := PopFlash(&ctx); got != "" {
		t.Errorf("flash on fresh request = %q", got)
	}
}

func cookieValue(t *testing.T, ctx *fasthttp.RequestCtx, name string) string {
	t.Helper()
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(name)
	if !ctx.Response.Header.Cookie(c) {
		t.Fatalf("cookie %q not set on response", name)
	}
	return string(c.Value())
}
