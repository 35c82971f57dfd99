package handler

import "github.com/labstack/echo/v4"

// envelope is the uniform response wrapper: payload, status code, message.
// The status field mirrors the HTTP status so clients parsing only the body
// see the same code.
type envelope struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, envelope{Data: data, Status: status, Message: message})
}
