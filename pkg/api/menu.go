package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"parkorder/pkg/menu"
	potel "parkorder/pkg/otel"
)

type menuItemView struct {
	menu.Item
	FormattedPrice string `json:"formattedPrice"`
}

func viewMenuItem(it menu.Item) menuItemView {
	return menuItemView{Item: it, FormattedPrice: menu.FormatPrice(it.Price)}
}

// listMenuHandler lists the menu, optionally filtered by category.
// @Summary List menu
// @Produce json
// @Param category query string false "all, food, drinks or snacks"
// @Success 200 {array} menuItemView
// @Router /menu [get]
func (s *Server) listMenuHandler(w http.ResponseWriter, r *http.Request) {
	_, span := potel.AddSpan(r.Context(), "listMenuHandler")
	defer span.End()

	category := menu.Category(r.URL.Query().Get("category"))
	if category != "" && !knownCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	items := s.menu.List(category)
	out := make([]menuItemView, 0, len(items))
	for _, it := range items {
		out = append(out, viewMenuItem(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// getMenuItemHandler returns one menu item.
// @Summary Get menu item
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} menuItemView
// @Router /menu/{id} [get]
func (s *Server) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	_, span := potel.AddSpan(r.Context(), "getMenuItemHandler")
	defer span.End()

	it, err := s.menu.Get(mux.Vars(r)["id"])
	if errors.Is(err, menu.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewMenuItem(it))
}

func knownCategory(c menu.Category) bool {
	for _, k := range menu.Categories() {
		if k == c {
			return true
		}
	}
	return false
}
