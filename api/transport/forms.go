package transport

import (
	"strconv"

	"github.com/valyala/fasthttp"
)

// LoginForm carries the credentials posted to the login page.
type LoginForm struct {
	Name     string
	Password string
}

// RegisterForm carries the fields posted to the registration page.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// TaskForm carries the fields posted by the add-task form. The due date
// stays a string here; the use case owns its format.
type TaskForm struct {
	Name     string
	DueDate  string
	Priority int
}

func ParseLoginForm(ctx *fasthttp.RequestCtx) LoginForm {
	args := ctx.PostArgs()
	return LoginForm{
		Name:     string(args.Peek("name")),
		Password: string(args.Peek("password")),
	}
}

func ParseRegisterForm(ctx *fasthttp.RequestCtx) RegisterForm {
	args := ctx.PostArgs()
	return RegisterForm{
		Name:     string(args.Peek("name")),
		Email:    string(args.Peek("email")),
		Password: string(args.Peek("password")),
		Confirm:  string(args.Peek("confirm")),
	}
}

func ParseTaskForm(ctx *fasthttp.RequestCtx) TaskForm {
	args := ctx.PostArgs()
	priority, _ := strconv.Atoi(string(args.Peek("priority")))
	return TaskForm{
		Name:     string(args.Peek("name")),
		DueDate:  string(args.Peek("due_date")),
		Priority: priority,
	}
}
