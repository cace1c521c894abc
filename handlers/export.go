package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/models"
)

// ExportOrders streams the filtered order listing as a spreadsheet
// (default) or CSV. The same visibility rules as the JSON listing apply.
func ExportOrders(w http.ResponseWriter, r *http.Request) {
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

	headers := []string{"Broker", "Insured", "Product", "Business Type", "Premium", "Currency", "Order Date", "Statuses", "Year"}
	data := make([][]interface{}, 0, len(rows))
	for _, o := range rows {
		data = append(data, []interface{}{
			o.BrokerName, o.InsuredName, o.ProductType, o.BusinessType,
			o.Premium, string(o.Currency), o.OrderDate.Time().Format("2006-01-02"),
			joinStatuses(o.Statuses), o.Year,
		})
	}
	sendTabular(w, r, dept.Label()+" Orders", headers, data)
}

// ExportQuotations streams the filtered quotation listing.
func ExportQuotations(w http.ResponseWriter, r *http.Request) {
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

	headers := []string{"Broker", "Insured", "Product", "Estimated Premium", "Currency", "Quotation Date", "Status", "Year"}
	data := make([][]interface{}, 0, len(rows))
	for _, q := range rows {
		data = append(data, []interface{}{
			q.BrokerName, q.InsuredName, q.ProductType, q.EstimatedPremium,
			string(q.Currency), q.QuotationDate.Time().Format("2006-01-02"),
			string(q.Status), q.Year,
		})
	}
	sendTabular(w, r, dept.Label()+" Quotations", headers, data)
}

// ExportBrokerAnalytics streams the broker rollup used by management.
func ExportBrokerAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := NewAnalyticsEngine(config.DB).Brokers()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	headers := []string{"Broker", "Quotations", "Open", "Confirmed", "Declined", "Hit Ratio %", "Orders", "Order Premium"}
	data := make([][]interface{}, 0, len(rows))
	for _, b := range rows {
		data = append(data, []interface{}{
			b.BrokerName, b.TotalQuotations, b.OpenQuotations, b.ConfirmedQuotations,
			b.DeclinedQuotations, b.HitRatio, b.OrderCount, b.OrderPremium,
		})
	}
	sendTabular(w, r, "Broker Analytics", headers, data)
}

func sendTabular(w http.ResponseWriter, r *http.Request, title string, headers []string, data [][]interface{}) {
	if r.URL.Query().Get("format") == "csv" {
		payload, err := buildCSV(headers, data)
		if err != nil {
			http.Error(w, "failed to generate CSV", http.StatusInternalServerError)
			return
		}
		sendAttachment(w, title, "csv", "text/csv", payload)
		return
	}
	file, err := buildWorkbook(title, headers, data)
	if err != nil {
		http.Error(w, "failed to generate spreadsheet", http.StatusInternalServerError)
		return
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write spreadsheet", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, title, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buffer.Bytes())
}

func sendAttachment(w http.ResponseWriter, title, ext, contentType string, payload []byte) {
	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(title), time.Now().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(payload)))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// buildWorkbook renders a titled, styled sheet the way the back-office
// expects its downloads to look.
func buildWorkbook(title string, headers []string, data [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetRowHeight(sheet, 1, 30)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		col := columnIndexToLetter(colIdx + 1)
		f.SetColWidth(sheet, col, col, 22)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func buildCSV(headers []string, data [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write(headers)
	for _, row := range data {
		record := make([]string, 0, len(row))
		for _, value := range row {
			record = append(record, fmt.Sprintf("%v", value))
		}
		writer.Write(record)
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func joinStatuses(statuses models.StatusList) string {
	out := ""
	for i, s := range statuses {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}

func sanitizeFilename(filename string) string {
	result := make([]rune, 0, len(filename))
	for _, char := range filename {
		switch char {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '&':
			result = append(result, '_')
		default:
			result = append(result, char)
		}
	}
	return string(result)
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
