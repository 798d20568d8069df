package http

import (
	"net/http"

	applog "bizdash/internal/log"
)

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListInventory(r.Context())
	if err != nil {
		s.fail(w, r, applog.ComponentInventory, applog.OpList, err)
		return
	}
	OK(items).Write(w)
}

// handleUpdateInventory overwrites stock, reorder level and status. An unknown
// id answers with null data and zero changes.
func (s *Server) handleUpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		s.fail(w, r, applog.ComponentInventory, applog.OpUpdate, err)
		return
	}
	u, err := ParseInventoryUpdate(w, r)
	if err != nil {
		s.fail(w, r, applog.ComponentInventory, applog.OpUpdate, err)
		return
	}

	item, changes, err := s.store.UpdateInventory(r.Context(), id, *u.Stock, *u.ReorderLevel, *u.Status)
	if err != nil {
		s.fail(w, r, applog.ComponentInventory, applog.OpUpdate, err)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentInventory).InfoContext(r.Context(), "Inventory item updated",
		applog.FieldInventoryID, id,
		applog.FieldChanges, changes)
	NewJSONResponse().NullableData(item).Changes(changes).Write(w)
}
