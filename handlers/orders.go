package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/middleware"
	"tradedesk.ae/brokerage/models"
)

// GetAllOrders lists the department's open orders for the active year;
// orders carrying "Policy Issued" never appear here. start/end/status/
// includeAll query params switch to the date-range listing.
func GetAllOrders(w http.ResponseWriter, r *http.Request) {
	dept, err := departmentFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filter, err := orderFilterFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows, err := models.NewQueryService(config.DB).ListOrdersInDateRange(dept, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows, "total": len(rows)})
}

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	dept, err := departmentFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var in models.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	o, err := models.NewLifecycleService(config.DB).CreateOrder(dept, in, middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	o, err := models.NewQueryService(config.DB).GetOrder(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type orderUpdateResponse struct {
	Order            *models.Order `json:"order"`
	StatusLogged     bool          `json:"statusLogged"`
	HasMovedToClosed bool          `json:"hasMovedToClosed"`
}

// UpdateOrder applies a partial update and reports whether this update
// moved the order into the closed-policies bucket, which only the caller
// can know because it requires the pre-update snapshot.
func UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var in models.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	o, previous, logged, err := models.NewLifecycleService(config.DB).UpdateOrder(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	moved := o.Closed() && !previous.Contains(models.StatusPolicyIssued)
	writeJSON(w, http.StatusOK, orderUpdateResponse{Order: o, StatusLogged: logged, HasMovedToClosed: moved})
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := models.NewLifecycleService(config.DB).DeleteOrder(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteReq struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkDeleteOrders deletes each selected order independently; a failure
// partway through reports how many were already removed.
func BulkDeleteOrders(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		http.Error(w, "ids must not be empty", http.StatusBadRequest)
		return
	}
	deleted, err := models.NewLifecycleService(config.DB).DeleteOrders(req.IDs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"deleted": deleted,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

// GetOrderStatusLogs returns the audit trail of status snapshots.
func GetOrderStatusLogs(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	service := models.NewQueryService(config.DB)
	if _, err := service.GetOrder(id); err != nil {
		writeServiceError(w, err)
		return
	}
	logs, err := service.ListStatusLogs(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": logs, "total": len(logs)})
}
