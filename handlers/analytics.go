package handlers

import (
	"net/http"
	"time"

	"tradedesk.ae/brokerage/config"
)

// GetInsuredAnalytics returns the per-insured cross-department rollups.
func GetInsuredAnalytics(w http.ResponseWriter, r *http.Request) {
	engine := NewAnalyticsEngine(config.DB)
	profiles, err := engine.InsuredProfiles()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	currency, _ := engine.PrimaryCurrency()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":            profiles,
		"total":           len(profiles),
		"primaryCurrency": currency,
	})
}

func GetBrokerAnalytics(w http.ResponseWriter, r *http.Request) {
	engine := NewAnalyticsEngine(config.DB)
	rows, err := engine.Brokers()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	currency, _ := engine.PrimaryCurrency()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":            rows,
		"total":           len(rows),
		"primaryCurrency": currency,
	})
}

func GetProductAnalytics(w http.ResponseWriter, r *http.Request) {
	engine := NewAnalyticsEngine(config.DB)
	rows, err := engine.Products()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	currency, _ := engine.PrimaryCurrency()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":            rows,
		"total":           len(rows),
		"primaryCurrency": currency,
	})
}

func GetBusinessTypeAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := NewAnalyticsEngine(config.DB).BusinessTypes()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// GetTimeSeriesAnalytics returns daily activity for the requested window,
// defaulting to the last 30 days.
func GetTimeSeriesAnalytics(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	start, err := parseDateParam(values, "start")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	end, err := parseDateParam(values, "end")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	now := time.Now()
	if end == nil {
		end = &now
	}
	if start == nil {
		s := end.AddDate(0, 0, -29)
		start = &s
	}
	series, err := NewAnalyticsEngine(config.DB).TimeSeries(*start, *end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": series, "days": len(series)})
}

// GetUnmatchedConfirmations is the manual-reconciliation report for
// confirmed quotations whose firm-order cascade failed.
func GetUnmatchedConfirmations(w http.ResponseWriter, r *http.Request) {
	rows, err := NewAnalyticsEngine(config.DB).UnmatchedConfirmations()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows, "total": len(rows)})
}
