package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/middleware"
	"tradedesk.ae/brokerage/models"
)

type extractReq struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Draft     models.QuotationInput `json:"draft"`
	Quotation *models.Quotation     `json:"quotation,omitempty"`
}

// ExtractQuotation turns an uploaded quotation slip (raw text in the JSON
// body, or a multipart "document" file) into a normalized quotation draft.
// With ?create=true the draft goes straight through the lifecycle engine,
// so an extracted Confirmed status cascades like any other confirmation.
func ExtractQuotation(w http.ResponseWriter, r *http.Request) {
	dept, err := departmentFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	text, err := extractText(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in, err := models.ExtractQuotationFields(dept, text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := extractResponse{Draft: in}
	if r.URL.Query().Get("create") == "true" {
		q, err := models.NewLifecycleService(config.DB).CreateQuotation(dept, in, middleware.GetUserID(r))
		if err != nil && q == nil {
			writeServiceError(w, err)
			return
		}
		resp.Quotation = q
	}
	status := http.StatusOK
	if resp.Quotation != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// extractText pulls the document text from either upload shape.
func extractText(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return "", err
		}
		file, _, err := r.FormFile("document")
		if err != nil {
			return "", err
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var req extractReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return req.Text, nil
}
