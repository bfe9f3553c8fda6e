package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"parkorder/pkg/cart"
	"parkorder/pkg/checkout"
	"parkorder/pkg/menu"
	potel "parkorder/pkg/otel"
	"parkorder/pkg/session"
)

type cartLineView struct {
	cart.Line
	LineTotal int64 `json:"lineTotal"`
}

type cartView struct {
	Lines          []cartLineView `json:"lines"`
	TableNumber    string         `json:"tableNumber"`
	CustomerName   string         `json:"customerName"`
	TotalItems     int            `json:"totalItems"`
	TotalPrice     int64          `json:"totalPrice"`
	FormattedTotal string         `json:"formattedTotal"`
	State          checkout.State `json:"state"`
	LastOrderID    string         `json:"lastOrderId,omitempty"`
}

func viewCart(sess *session.Session) cartView {
	snap := sess.Cart.Snapshot()
	lines := make([]cartLineView, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		lines = append(lines, cartLineView{Line: l, LineTotal: l.Total()})
	}
	return cartView{
		Lines:          lines,
		TableNumber:    snap.TableNumber,
		CustomerName:   snap.CustomerName,
		TotalItems:     snap.ItemCount(),
		TotalPrice:     snap.TotalPrice,
		FormattedTotal: menu.FormatPrice(snap.TotalPrice),
		State:          sess.Checkout.State(),
		LastOrderID:    sess.Checkout.LastOrderID(),
	}
}

// getCartHandler returns the session's cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart [get]
func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	_, span := potel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, viewCart(sessionFrom(r.Context())))
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

// addCartItemHandler adds one of a menu item to the cart.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Menu item"
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart/items [post]
func (s *Server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}
	it, err := s.menu.Get(req.ItemID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	sess := sessionFrom(ctx)
	line := sess.Cart.AddItem(cart.Item{ID: it.ID, Name: it.Name, Price: it.Price})
	span.SetAttributes(attribute.String("item_id", line.ItemID), attribute.Int("quantity", line.Quantity))
	sess.Feed.NotifyInfo(line.Name + " added to order")
	s.log.Debug(ctx, "cart item added", "session", sess.ID, "item", line.ItemID, "quantity", line.Quantity)

	writeJSON(w, http.StatusOK, viewCart(sess))
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// updateCartItemHandler sets a line's quantity; zero or less removes it.
// @Summary Update quantity
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param quantity body updateQuantityRequest true "New quantity"
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart/items/{id} [put]
func (s *Server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "updateCartItemHandler")
	defer span.End()

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	sess := sessionFrom(ctx)
	if !sess.Cart.UpdateQuantity(mux.Vars(r)["id"], *req.Quantity) {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}
	writeJSON(w, http.StatusOK, viewCart(sess))
}

// removeCartItemHandler removes a line from the cart.
// @Summary Remove item
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart/items/{id} [delete]
func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	sess := sessionFrom(ctx)
	if !sess.Cart.RemoveItem(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}
	writeJSON(w, http.StatusOK, viewCart(sess))
}

// clearCartHandler empties the cart, keeping table number and name.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart [delete]
func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	sess := sessionFrom(ctx)
	sess.Cart.Clear()
	writeJSON(w, http.StatusOK, viewCart(sess))
}

type cartDetailsRequest struct {
	TableNumber  *string `json:"tableNumber"`
	CustomerName *string `json:"customerName"`
}

// updateCartDetailsHandler sets the table number and customer name.
// @Summary Set table and name
// @Accept json
// @Produce json
// @Param details body cartDetailsRequest true "Fields to change"
// @Success 200 {object} cartView
// @Security ApiKeyAuth
// @Router /cart/details [put]
func (s *Server) updateCartDetailsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "updateCartDetailsHandler")
	defer span.End()

	var req cartDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(ctx)
	if req.TableNumber != nil {
		sess.Cart.SetTableNumber(*req.TableNumber)
	}
	if req.CustomerName != nil {
		sess.Cart.SetCustomerName(*req.CustomerName)
	}
	writeJSON(w, http.StatusOK, viewCart(sess))
}

type submitResponse struct {
	OrderID string         `json:"orderId"`
	State   checkout.State `json:"state"`
}

// submitCartHandler sends the cart to the waiters as an order.
// @Summary Send order
// @Produce json
// @Success 201 {object} submitResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 504 {object} errorResponse
// @Security ApiKeyAuth
// @Router /cart/submit [post]
func (s *Server) submitCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "submitCartHandler")
	defer span.End()

	sess := sessionFrom(ctx)
	id, err := sess.Checkout.Submit(ctx)
	if err != nil {
		var (
			verr *checkout.ValidationError
			serr *checkout.SubmissionError
		)
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
		case errors.Is(err, checkout.ErrBusy):
			writeError(w, http.StatusConflict, "order already being sent")
		case errors.As(err, &serr) && serr.Timeout():
			writeError(w, http.StatusGatewayTimeout, "order service did not respond")
		default:
			writeError(w, http.StatusBadGateway, "failed to submit order")
		}
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{OrderID: id, State: sess.Checkout.State()})
}
