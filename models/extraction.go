package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNoExtractableData is returned when a submitted document yields no
// usable insured name. Nothing is persisted in that case.
var ErrNoExtractableData = errors.New("could not extract an insured name from the document")

// ExtractQuotationFields turns raw document text into a quotation payload.
// The extractor is treated as an untrusted source: every enum-like field is
// normalized before it is allowed into the data model (unknown product →
// nearest catalog match or department default, unknown currency → AED,
// unknown status → Open).
//
// The parser understands "Key: Value" lines with the field aliases the
// uploaded quotation slips actually use.
func ExtractQuotationFields(dept Department, text string) (QuotationInput, error) {
	var in QuotationInput
	if strings.TrimSpace(text) == "" {
		return in, ErrNoExtractableData
	}

	fields := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}
		fields[key] = value
	}

	if v := firstOf(fields, "insured", "insured name", "client", "assured"); v != "" {
		in.InsuredName = &v
	}
	if in.InsuredName == nil {
		return QuotationInput{}, ErrNoExtractableData
	}
	if v := firstOf(fields, "broker", "broker name", "intermediary"); v != "" {
		in.BrokerName = &v
	}
	product := dept.NormalizeProduct(firstOf(fields, "product", "product type", "class", "class of business", "cover"))
	in.ProductType = &product

	currency := NormalizeCurrency(firstOf(fields, "currency", "ccy"))
	in.Currency = &currency

	status := NormalizeQuotationStatus(firstOf(fields, "status"))
	in.Status = &status

	if v := firstOf(fields, "premium", "estimated premium", "gross premium"); v != "" {
		cleaned := cleanAmount(v)
		if cleaned != "" {
			in.EstimatedPremium = &cleaned
		}
	}
	if v := firstOf(fields, "date", "quotation date"); v != "" {
		if t, ok := parseLooseDate(v); ok {
			jt := JSONTime(t)
			in.QuotationDate = &jt
		}
	}
	if v := firstOf(fields, "notes", "remarks", "comments"); v != "" {
		in.Notes = &v
	}
	if v := strings.ToLower(firstOf(fields, "survey", "survey required")); v == "yes" || v == "true" || v == "required" {
		required := true
		in.SurveyRequired = &required
	}
	return in, nil
}

func firstOf(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return ""
}

// cleanAmount strips currency symbols and grouping from an extracted
// amount, keeping digits and the decimal point.
func cleanAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseLooseDate(s string) (time.Time, bool) {
	layouts := append([]string{"02/01/2006", "02-01-2006", "2 Jan 2006", "January 2, 2006"}, jsonTimeLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
