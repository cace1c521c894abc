package handlers

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/models"
	"tradedesk.ae/brokerage/utils"
)

// AnalyticsEngine builds the cross-department management reports. It reads
// quotations and orders for all three departments in the active year
// (closed orders included) and joins them in memory by insured name.
// The join is a case-sensitive exact match, no fuzzy matching.
//
// Premium sums mix raw numeric values regardless of each record's stated
// currency; PrimaryCurrency only labels the dominant currency for display.
type AnalyticsEngine struct {
	db *gorm.DB
}

func NewAnalyticsEngine(db *gorm.DB) *AnalyticsEngine {
	return &AnalyticsEngine{db: db}
}

// DepartmentMetrics is one department's slice of an insured rollup.
type DepartmentMetrics struct {
	OpenQuotations      int     `json:"openQuotations"`
	ConfirmedQuotations int     `json:"confirmedQuotations"`
	DeclinedQuotations  int     `json:"declinedQuotations"`
	QuotedPremium       float64 `json:"quotedPremium"`
	NewBusinessOrders   int     `json:"newBusinessOrders"`
	RenewalOrders       int     `json:"renewalOrders"`
	NewBusinessPremium  float64 `json:"newBusinessPremium"`
	RenewalPremium      float64 `json:"renewalPremium"`
	TotalOrderPremium   float64 `json:"totalOrderPremium"`
}

type InsuredProfile struct {
	InsuredName string                                  `json:"insuredName"`
	Departments map[models.Department]DepartmentMetrics `json:"departments"`
	Total       DepartmentMetrics                       `json:"total"`
}

type BrokerAnalytics struct {
	BrokerName          string  `json:"brokerName"`
	TotalQuotations     int     `json:"totalQuotations"`
	OpenQuotations      int     `json:"openQuotations"`
	ConfirmedQuotations int     `json:"confirmedQuotations"`
	DeclinedQuotations  int     `json:"declinedQuotations"`
	HitRatio            string  `json:"hitRatio"`
	OrderCount          int     `json:"orderCount"`
	OrderPremium        float64 `json:"orderPremium"`
}

type ProductAnalytics struct {
	ProductType         string            `json:"productType"`
	Department          models.Department `json:"department"`
	QuotationCount      int               `json:"quotationCount"`
	ConfirmedQuotations int               `json:"confirmedQuotations"`
	QuotedPremium       float64           `json:"quotedPremium"`
	OrderCount          int               `json:"orderCount"`
	OrderPremium        float64           `json:"orderPremium"`
	AveragePremium      float64           `json:"averagePremium"`
}

type BusinessTypeAnalytics struct {
	BusinessType   string  `json:"businessType"`
	OrderCount     int     `json:"orderCount"`
	OrderPremium   float64 `json:"orderPremium"`
	AveragePremium float64 `json:"averagePremium"`
}

// DailyActivity is one zero-filled day of the time series.
type DailyActivity struct {
	Date                string  `json:"date"`
	NewQuotations       int     `json:"newQuotations"`
	ConfirmedQuotations int     `json:"confirmedQuotations"`
	OrderPremium        float64 `json:"orderPremium"`
}

// dataset is the combined active-year view the reports run over.
type dataset struct {
	quotations map[models.Department][]models.Quotation
	orders     map[models.Department][]models.Order
}

func (e *AnalyticsEngine) load() (*dataset, error) {
	qs := models.NewQueryService(e.db)
	ds := &dataset{
		quotations: map[models.Department][]models.Quotation{},
		orders:     map[models.Department][]models.Order{},
	}
	for _, dept := range models.Departments {
		quotations, err := qs.ListQuotationsInDateRange(dept, models.QuotationFilter{})
		if err != nil {
			return nil, err
		}
		orders, err := qs.ListOrdersInDateRange(dept, models.OrderFilter{IncludeAll: true})
		if err != nil {
			return nil, err
		}
		ds.quotations[dept] = quotations
		ds.orders[dept] = orders
	}
	return ds, nil
}

// InsuredProfiles returns per-insured, per-department rollups plus totals,
// sorted by insured name.
func (e *AnalyticsEngine) InsuredProfiles() ([]InsuredProfile, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}

	type deptAccum struct {
		metrics DepartmentMetrics
		quoted  decimal.Decimal
		newPrem decimal.Decimal
		renPrem decimal.Decimal
	}
	accums := map[string]map[models.Department]*deptAccum{}
	accumFor := func(name string, dept models.Department) *deptAccum {
		if accums[name] == nil {
			accums[name] = map[models.Department]*deptAccum{}
		}
		if accums[name][dept] == nil {
			accums[name][dept] = &deptAccum{}
		}
		return accums[name][dept]
	}

	for dept, quotations := range ds.quotations {
		for _, q := range quotations {
			a := accumFor(q.InsuredName, dept)
			switch q.Status {
			case models.QuotationOpen:
				a.metrics.OpenQuotations++
			case models.QuotationConfirmed:
				a.metrics.ConfirmedQuotations++
			case models.QuotationDeclined:
				a.metrics.DeclinedQuotations++
			}
			a.quoted = a.quoted.Add(utils.PremiumValue(q.EstimatedPremium))
		}
	}
	for dept, orders := range ds.orders {
		for _, o := range orders {
			a := accumFor(o.InsuredName, dept)
			premium := utils.PremiumValue(o.Premium)
			if o.BusinessType == models.BusinessRenewal {
				a.metrics.RenewalOrders++
				a.renPrem = a.renPrem.Add(premium)
			} else {
				a.metrics.NewBusinessOrders++
				a.newPrem = a.newPrem.Add(premium)
			}
		}
	}

	names := make([]string, 0, len(accums))
	for name := range accums {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]InsuredProfile, 0, len(names))
	for _, name := range names {
		profile := InsuredProfile{
			InsuredName: name,
			Departments: map[models.Department]DepartmentMetrics{},
		}
		for dept, a := range accums[name] {
			m := a.metrics
			m.QuotedPremium = a.quoted.InexactFloat64()
			m.NewBusinessPremium = a.newPrem.InexactFloat64()
			m.RenewalPremium = a.renPrem.InexactFloat64()
			m.TotalOrderPremium = a.newPrem.Add(a.renPrem).InexactFloat64()
			profile.Departments[dept] = m

			profile.Total.OpenQuotations += m.OpenQuotations
			profile.Total.ConfirmedQuotations += m.ConfirmedQuotations
			profile.Total.DeclinedQuotations += m.DeclinedQuotations
			profile.Total.QuotedPremium += m.QuotedPremium
			profile.Total.NewBusinessOrders += m.NewBusinessOrders
			profile.Total.RenewalOrders += m.RenewalOrders
			profile.Total.NewBusinessPremium += m.NewBusinessPremium
			profile.Total.RenewalPremium += m.RenewalPremium
			profile.Total.TotalOrderPremium += m.TotalOrderPremium
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Brokers returns the global per-broker rollup. Hit ratio is
// confirmed / total quotations as a two-decimal percentage string, "0.00"
// for brokers with no quotations.
func (e *AnalyticsEngine) Brokers() ([]BrokerAnalytics, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}

	type brokerAccum struct {
		row     BrokerAnalytics
		premium decimal.Decimal
	}
	accums := map[string]*brokerAccum{}
	accumFor := func(name string) *brokerAccum {
		if accums[name] == nil {
			accums[name] = &brokerAccum{row: BrokerAnalytics{BrokerName: name}}
		}
		return accums[name]
	}

	for _, quotations := range ds.quotations {
		for _, q := range quotations {
			a := accumFor(q.BrokerName)
			a.row.TotalQuotations++
			switch q.Status {
			case models.QuotationOpen:
				a.row.OpenQuotations++
			case models.QuotationConfirmed:
				a.row.ConfirmedQuotations++
			case models.QuotationDeclined:
				a.row.DeclinedQuotations++
			}
		}
	}
	for _, orders := range ds.orders {
		for _, o := range orders {
			a := accumFor(o.BrokerName)
			a.row.OrderCount++
			a.premium = a.premium.Add(utils.PremiumValue(o.Premium))
		}
	}

	rows := make([]BrokerAnalytics, 0, len(accums))
	for _, a := range accums {
		a.row.HitRatio = hitRatio(a.row.ConfirmedQuotations, a.row.TotalQuotations)
		a.row.OrderPremium = a.premium.InexactFloat64()
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BrokerName < rows[j].BrokerName })
	return rows, nil
}

// hitRatio formats confirmed/total as a percentage with two decimals,
// avoiding a divide by zero for brokers with no quotations.
func hitRatio(confirmed, total int) string {
	if total == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(int64(confirmed)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2)
}

// Products returns the per-product-type rollup across all departments.
func (e *AnalyticsEngine) Products() ([]ProductAnalytics, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}

	type productAccum struct {
		row       ProductAnalytics
		quoted    decimal.Decimal
		orderPrem decimal.Decimal
	}
	accums := map[string]*productAccum{}
	accumFor := func(product string, dept models.Department) *productAccum {
		if accums[product] == nil {
			accums[product] = &productAccum{row: ProductAnalytics{ProductType: product, Department: dept}}
		}
		return accums[product]
	}

	for dept, quotations := range ds.quotations {
		for _, q := range quotations {
			a := accumFor(q.ProductType, dept)
			a.row.QuotationCount++
			if q.Status == models.QuotationConfirmed {
				a.row.ConfirmedQuotations++
			}
			a.quoted = a.quoted.Add(utils.PremiumValue(q.EstimatedPremium))
		}
	}
	for dept, orders := range ds.orders {
		for _, o := range orders {
			a := accumFor(o.ProductType, dept)
			a.row.OrderCount++
			a.orderPrem = a.orderPrem.Add(utils.PremiumValue(o.Premium))
		}
	}

	rows := make([]ProductAnalytics, 0, len(accums))
	for _, a := range accums {
		a.row.QuotedPremium = a.quoted.InexactFloat64()
		a.row.OrderPremium = a.orderPrem.InexactFloat64()
		if a.row.OrderCount > 0 {
			a.row.AveragePremium = a.orderPrem.Div(decimal.NewFromInt(int64(a.row.OrderCount))).InexactFloat64()
		}
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductType < rows[j].ProductType })
	return rows, nil
}

// BusinessTypes returns order count, premium sum and average per business
// type across all departments.
func (e *AnalyticsEngine) BusinessTypes() ([]BusinessTypeAnalytics, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	premiums := map[string]decimal.Decimal{}
	for _, orders := range ds.orders {
		for _, o := range orders {
			counts[o.BusinessType]++
			premiums[o.BusinessType] = premiums[o.BusinessType].Add(utils.PremiumValue(o.Premium))
		}
	}
	rows := make([]BusinessTypeAnalytics, 0, 2)
	for _, bt := range []string{models.BusinessNew, models.BusinessRenewal} {
		row := BusinessTypeAnalytics{
			BusinessType: bt,
			OrderCount:   counts[bt],
			OrderPremium: premiums[bt].InexactFloat64(),
		}
		if row.OrderCount > 0 {
			row.AveragePremium = premiums[bt].Div(decimal.NewFromInt(int64(row.OrderCount))).InexactFloat64()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TimeSeries returns one entry per calendar day in [start, end], zero
// filled for days without activity. Quotations count on their quotation
// date; confirmed counts reflect the stored status at read time; order
// premium sums on the order date.
func (e *AnalyticsEngine) TimeSeries(start, end time.Time) ([]DailyActivity, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if endDay.Before(startDay) {
		startDay, endDay = endDay, startDay
	}

	byDay := map[string]*DailyActivity{}
	premiums := map[string]decimal.Decimal{}
	var series []DailyActivity
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		byDay[key] = &DailyActivity{Date: key}
	}

	for _, quotations := range ds.quotations {
		for _, q := range quotations {
			key := q.QuotationDate.Time().Format("2006-01-02")
			entry, ok := byDay[key]
			if !ok {
				continue
			}
			entry.NewQuotations++
			if q.Status == models.QuotationConfirmed {
				entry.ConfirmedQuotations++
			}
		}
	}
	for _, orders := range ds.orders {
		for _, o := range orders {
			key := o.OrderDate.Time().Format("2006-01-02")
			if _, ok := byDay[key]; !ok {
				continue
			}
			premiums[key] = premiums[key].Add(utils.PremiumValue(o.Premium))
		}
	}

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		entry := byDay[key]
		entry.OrderPremium = premiums[key].InexactFloat64()
		series = append(series, *entry)
	}
	return series, nil
}

// PrimaryCurrency picks the most frequent currency across the combined
// dataset as the display currency. Sums are NOT converted into it.
func (e *AnalyticsEngine) PrimaryCurrency() (models.Currency, error) {
	ds, err := e.load()
	if err != nil {
		return models.CurrencyAED, err
	}
	counts := map[models.Currency]int{}
	for _, quotations := range ds.quotations {
		for _, q := range quotations {
			counts[q.Currency]++
		}
	}
	for _, orders := range ds.orders {
		for _, o := range orders {
			counts[o.Currency]++
		}
	}
	primary := models.CurrencyAED
	best := 0
	for _, c := range models.Currencies {
		if counts[c] > best {
			best = counts[c]
			primary = c
		}
	}
	return primary, nil
}

// UnmatchedConfirmations lists confirmed quotations with no derived order,
// the residue of a failed cascade. Surfaced for manual reconciliation.
func (e *AnalyticsEngine) UnmatchedConfirmations() ([]models.Quotation, error) {
	ds, err := e.load()
	if err != nil {
		return nil, err
	}
	derived := map[string]bool{}
	for _, orders := range ds.orders {
		for _, o := range orders {
			if o.SourceQuotationID != nil {
				derived[o.SourceQuotationID.String()] = true
			}
		}
	}
	var unmatched []models.Quotation
	for _, quotations := range ds.quotations {
		for _, q := range quotations {
			if q.Status == models.QuotationConfirmed && !derived[q.ID.String()] {
				unmatched = append(unmatched, q)
			}
		}
	}
	sort.Slice(unmatched, func(i, j int) bool {
		return unmatched[i].CreatedAt.Before(unmatched[j].CreatedAt)
	})
	return unmatched, nil
}
