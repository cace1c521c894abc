package handlers

import (
	"encoding/json"
	"net/http"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/models"
)

func GetActiveYear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"activeYear": models.ActiveYear(config.DB)})
}

type activeYearReq struct {
	Year int `json:"year"`
}

// SetActiveYear switches the fiscal-year partition. Prior-year records are
// hidden from default listings, not deleted.
func SetActiveYear(w http.ResponseWriter, r *http.Request) {
	var req activeYearReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := models.SetActiveYear(config.DB, req.Year); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"activeYear": req.Year})
}
