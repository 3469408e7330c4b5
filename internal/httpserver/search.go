package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/kultmet/grocery-store/internal/logging"
	"github.com/kultmet/grocery-store/internal/service/search"
	"github.com/kultmet/grocery-store/internal/transport"
	"github.com/kultmet/grocery-store/internal/util"
)

type SearchHTTP struct {
	ES *elasticsearch.Client
}

func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, "query parameter q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := search.Search(ctx, h.ES, search.ProductIndex, q, from, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "query", q, "error", err)
		return c.JSON(http.StatusInternalServerError, "search failed")
	}

	l.Info("search_success", "query", q, "total", total)
	return c.JSON(http.StatusOK, transport.SearchResponse{
		Total: total,
		Page:  page,
		Size:  limit,
		Data:  products,
	})
}
