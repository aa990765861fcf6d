package http

import "github.com/labstack/echo/v4"

// Handler registers its routes on the server's Echo instance. The server
// owns middleware and lifecycle; handlers only contribute routes.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
