package models

import (
	"fmt"
	"strings"
)

// Department identifies one of the three business lines. Quotations and
// orders for every line share one schema and are partitioned by this tag.
type Department string

const (
	DeptMarine              Department = "marine"
	DeptPropertyEngineering Department = "property_engineering"
	DeptLiabilityFinancial  Department = "liability_financial"
)

var Departments = []Department{DeptMarine, DeptPropertyEngineering, DeptLiabilityFinancial}

// productCatalog lists the product types each line is allowed to write.
// The first entry doubles as the fallback for unrecognized extracted values.
var productCatalog = map[Department][]string{
	DeptMarine: {
		"Marine Cargo",
		"Marine Hull",
		"Cargo Open Cover",
		"Pleasure Craft",
		"Freight Liability",
	},
	DeptPropertyEngineering: {
		"Property All Risks",
		"Contractors All Risks",
		"Erection All Risks",
		"Machinery Breakdown",
		"Business Interruption",
	},
	DeptLiabilityFinancial: {
		"Public Liability",
		"Professional Indemnity",
		"Directors & Officers",
		"Workmen Compensation",
		"Cyber Liability",
		"Medical Malpractice",
	},
}

func ParseDepartment(s string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DeptMarine, DeptPropertyEngineering, DeptLiabilityFinancial:
		return d, nil
	}
	return "", &ValidationError{Field: "department", Reason: fmt.Sprintf("unknown department %q", s)}
}

// Label returns the display name used on reports and exports.
func (d Department) Label() string {
	switch d {
	case DeptMarine:
		return "Marine"
	case DeptPropertyEngineering:
		return "Property & Engineering"
	case DeptLiabilityFinancial:
		return "Liability & Financial"
	}
	return string(d)
}

func (d Department) ProductTypes() []string {
	return productCatalog[d]
}

// ValidProduct reports whether product is an exact catalog entry for d.
func (d Department) ValidProduct(product string) bool {
	for _, p := range productCatalog[d] {
		if p == product {
			return true
		}
	}
	return false
}

// NormalizeProduct maps a free-form product string (typically coming from
// document extraction) onto the department catalog: exact match first, then
// case-insensitive match, then substring containment either way, finally
// the department's default product.
func (d Department) NormalizeProduct(raw string) string {
	catalog := productCatalog[d]
	if len(catalog) == 0 {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return catalog[0]
	}
	for _, p := range catalog {
		if p == trimmed {
			return p
		}
	}
	lower := strings.ToLower(trimmed)
	for _, p := range catalog {
		if strings.ToLower(p) == lower {
			return p
		}
	}
	for _, p := range catalog {
		pl := strings.ToLower(p)
		if strings.Contains(pl, lower) || strings.Contains(lower, pl) {
			return p
		}
	}
	return catalog[0]
}

// Currency is the ISO-style currency code carried on quotations and orders.
// Aggregations do not convert between currencies; see the analytics engine.
type Currency string

const CurrencyAED Currency = "AED"

var Currencies = []Currency{
	CurrencyAED, "USD", "EUR", "GBP", "SAR", "QAR", "OMR", "BHD", "KWD", "INR",
}

func ValidCurrency(c Currency) bool {
	for _, cur := range Currencies {
		if cur == c {
			return true
		}
	}
	return false
}

// NormalizeCurrency defaults unknown codes to AED.
func NormalizeCurrency(raw string) Currency {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if ValidCurrency(c) {
		return c
	}
	return CurrencyAED
}

// QuotationStatus is the single status of a quotation.
type QuotationStatus string

const (
	QuotationOpen      QuotationStatus = "Open"
	QuotationConfirmed QuotationStatus = "Confirmed"
	QuotationDeclined  QuotationStatus = "Decline"
)

func ValidQuotationStatus(s QuotationStatus) bool {
	return s == QuotationOpen || s == QuotationConfirmed || s == QuotationDeclined
}

// NormalizeQuotationStatus defaults unknown values to Open.
func NormalizeQuotationStatus(raw string) QuotationStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "confirmed", "confirm":
		return QuotationConfirmed
	case "decline", "declined":
		return QuotationDeclined
	default:
		return QuotationOpen
	}
}

// Order status tags. An order holds any subset of these at once;
// StatusPolicyIssued is the only closing tag.
const (
	StatusFirmOrderReceived = "Firm Order Received"
	StatusCOIIssued         = "COI Issued"
	StatusKYCPending        = "KYC Pending"
	StatusKYCCompleted      = "KYC Completed"
	StatusPolicyIssued      = "Policy Issued"
)

var OrderStatusTags = []string{
	StatusFirmOrderReceived,
	StatusCOIIssued,
	StatusKYCPending,
	StatusKYCCompleted,
	StatusPolicyIssued,
}

func ValidOrderStatusTag(tag string) bool {
	for _, t := range OrderStatusTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Business types carried on orders.
const (
	BusinessNew     = "New Business"
	BusinessRenewal = "Renewal"
)

func ValidBusinessType(bt string) bool {
	return bt == BusinessNew || bt == BusinessRenewal
}

// ValidationError carries field-level detail for rejected input. Handlers
// surface it as a 400 before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
