package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNoExtractableData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func departmentFromRequest(r *http.Request) (models.Department, error) {
	return models.ParseDepartment(mux.Vars(r)["department"])
}

func idFromRequest(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "id", Reason: "not a valid uuid"}
	}
	return id, nil
}

func parseDateParam(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Reason: "expected YYYY-MM-DD"}
	}
	return &t, nil
}

func orderFilterFromRequest(r *http.Request) (models.OrderFilter, error) {
	var f models.OrderFilter
	values := r.URL.Query()
	start, err := parseDateParam(values, "start")
	if err != nil {
		return f, err
	}
	end, err := parseDateParam(values, "end")
	if err != nil {
		return f, err
	}
	f.Start = start
	f.End = end
	f.Status = values.Get("status")
	f.IncludeAll = values.Get("includeAll") == "true"
	return f, nil
}

func quotationFilterFromRequest(r *http.Request) (models.QuotationFilter, error) {
	var f models.QuotationFilter
	values := r.URL.Query()
	start, err := parseDateParam(values, "start")
	if err != nil {
		return f, err
	}
	end, err := parseDateParam(values, "end")
	if err != nil {
		return f, err
	}
	f.Start = start
	f.End = end
	f.Status = models.QuotationStatus(values.Get("status"))
	return f, nil
}
