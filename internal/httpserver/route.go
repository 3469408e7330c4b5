package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kultmet/grocery-store/internal/middleware/auth"
)

type Deps struct {
	CartHandler   *CartHTTP
	SearchHandler *SearchHTTP
	JWTSecret     []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := auth.New(d.JWTSecret)

	v1 := e.Group("/api/v1")

	if d.SearchHandler != nil {
		v1.GET("/products/search", d.SearchHandler.SearchProducts)
	}

	cart := v1.Group("", authMW.RequireAuth)
	cart.POST("/products/:slug/cart", d.CartHandler.CreateEntry)
	cart.PATCH("/products/:slug/cart", d.CartHandler.UpdateEntry)
	cart.DELETE("/products/:slug/cart", d.CartHandler.DeleteEntry)
	cart.GET("/cart", d.CartHandler.GetSnapshot)
	cart.DELETE("/cart", d.CartHandler.ClearCart)
}
