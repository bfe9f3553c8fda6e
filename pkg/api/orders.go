package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"parkorder/pkg/order"
	potel "parkorder/pkg/otel"
)

// listOrdersHandler lists orders, newest first.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Security ApiKeyAuth
// @Failure 403 {object} errorResponse
// @Router /orders [get]
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := s.orders.List(ctx)
	if err != nil {
		s.log.Error(ctx, "list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// getOrderHandler retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Security ApiKeyAuth
// @Failure 403 {object} errorResponse
// @Router /orders/{id} [get]
func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	o, err := s.orders.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		s.orderError(w, r, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

// updateOrderStatusHandler moves an order to a new status.
// @Summary Update order status
// @Accept json
// @Param id path string true "Order ID"
// @Param status body statusRequest true "pending, confirmed, completed or cancelled"
// @Success 204
// @Security ApiKeyAuth
// @Failure 403 {object} errorResponse
// @Router /orders/{id}/status [put]
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "updateOrderStatusHandler")
	defer span.End()

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.orders.SetStatus(ctx, mux.Vars(r)["id"], req.Status); err != nil {
		s.orderError(w, r, "update order status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteOrderHandler removes an order.
// @Summary Delete order
// @Param id path string true "Order ID"
// @Success 204
// @Security ApiKeyAuth
// @Failure 403 {object} errorResponse
// @Router /orders/{id} [delete]
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	if err := s.orders.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		s.orderError(w, r, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) orderError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error(r.Context(), op, "error", err)
		writeError(w, http.StatusInternalServerError, op+" failed")
	}
}
