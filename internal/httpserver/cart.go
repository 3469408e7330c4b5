package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kultmet/grocery-store/internal/logging"
	authmw "github.com/kultmet/grocery-store/internal/middleware/auth"
	"github.com/kultmet/grocery-store/internal/mykafka"
	"github.com/kultmet/grocery-store/internal/service"
	"github.com/kultmet/grocery-store/internal/transport"
)

const cartEventsTopic = "cart_events"

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) BuyerID(c echo.Context) (uuid.UUID, error) {
	v := c.Get(authmw.BuyerIDKey)
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	buyerID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return buyerID, nil
}

func (h *CartHTTP) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key, _ := event["buyer_id"].(string)
	if err := h.Producer.PublishEvent(ctx, cartEventsTopic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func mutationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *CartHTTP) CreateEntry(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create")

	buyerID, err := h.BuyerID(c)
	if err != nil {
		l.Error("create_entry_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.EditCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_entry_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	slug := c.Param("slug")
	entry, err := h.Svc.CreateEntry(ctx, buyerID, slug, req.Quantity)
	if err != nil {
		status, msg := mutationStatus(err)
		l.Warn("create_entry_error", "status", status, "slug", slug, "error", err)
		return c.JSON(status, msg)
	}

	h.publish(c, map[string]any{
		"type":       "cart_entry_created",
		"buyer_id":   buyerID.String(),
		"product_id": entry.ProductID.String(),
		"quantity":   entry.Quantity,
	})

	l.Info("create_entry_success", "slug", slug)
	return c.JSON(http.StatusCreated, entry)
}

func (h *CartHTTP) UpdateEntry(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	buyerID, err := h.BuyerID(c)
	if err != nil {
		l.Error("update_entry_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.EditCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_entry_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	slug := c.Param("slug")
	entry, err := h.Svc.UpdateEntry(ctx, buyerID, slug, req.Quantity)
	if err != nil {
		status, msg := mutationStatus(err)
		l.Warn("update_entry_error", "status", status, "slug", slug, "error", err)
		return c.JSON(status, msg)
	}

	h.publish(c, map[string]any{
		"type":       "cart_entry_updated",
		"buyer_id":   buyerID.String(),
		"product_id": entry.ProductID.String(),
		"quantity":   entry.Quantity,
	})

	l.Info("update_entry_success", "slug", slug)
	return c.JSON(http.StatusOK, entry)
}

func (h *CartHTTP) DeleteEntry(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	buyerID, err := h.BuyerID(c)
	if err != nil {
		l.Error("delete_entry_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	slug := c.Param("slug")
	if err := h.Svc.DeleteEntry(ctx, buyerID, slug); err != nil {
		status, msg := mutationStatus(err)
		l.Warn("delete_entry_error", "status", status, "slug", slug, "error", err)
		return c.JSON(status, msg)
	}

	h.publish(c, map[string]any{
		"type":     "cart_entry_deleted",
		"buyer_id": buyerID.String(),
		"slug":     slug,
	})

	l.Info("delete_entry_success", "slug", slug)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) GetSnapshot(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.snapshot")

	buyerID, err := h.BuyerID(c)
	if err != nil {
		l.Error("get_snapshot_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	snapshot, err := h.Svc.Snapshot(ctx, buyerID)
	if err != nil {
		l.Error("get_snapshot_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	buyerID, err := h.BuyerID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	removed, err := h.Svc.Clear(ctx, buyerID)
	if err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	if removed > 0 {
		h.publish(c, map[string]any{
			"type":     "cart_cleared",
			"buyer_id": buyerID.String(),
			"removed":  removed,
		})
	}

	l.Info("clear_cart_success", "removed", removed)
	return c.JSON(http.StatusOK, transport.ClearCartResponse{Removed: removed})
}
