package handlers

import (
	"encoding/json"
	"net/http"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/middleware"
	"tradedesk.ae/brokerage/models"
)

// GetAllQuotations lists the department's quotations for the active year.
// Optional start/end/status query params switch to the date-range listing.
func GetAllQuotations(w http.ResponseWriter, r *http.Request) {
	dept, err := departmentFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filter, err := quotationFilterFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows, err := models.NewQueryService(config.DB).ListQuotationsInDateRange(dept, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows, "total": len(rows)})
}

type quotationResponse struct {
	Quotation    *models.Quotation `json:"quotation"`
	OrderCreated bool              `json:"orderCreated"`
}

func CreateQuotation(w http.ResponseWriter, r *http.Request) {
	dept, err := departmentFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var in models.QuotationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	service := models.NewLifecycleService(config.DB)
	q, err := service.CreateQuotation(dept, in, middleware.GetUserID(r))
	if err != nil {
		if q == nil {
			writeServiceError(w, err)
			return
		}
		// Quotation persisted but the firm-order cascade failed; the caller
		// has to know both facts.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, quotationResponse{Quotation: q, OrderCreated: q.Status == models.QuotationConfirmed})
}

func GetQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	q, err := models.NewQueryService(config.DB).GetQuotation(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var in models.QuotationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	q, orderCreated, err := models.NewLifecycleService(config.DB).UpdateQuotation(id, in)
	if err != nil {
		if q == nil {
			writeServiceError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, quotationResponse{Quotation: q, OrderCreated: orderCreated})
}

func DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := models.NewLifecycleService(config.DB).DeleteQuotation(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
