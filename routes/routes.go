package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"tradedesk.ae/brokerage/handlers"
	"tradedesk.ae/brokerage/middleware"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Public routes (no authentication)
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// Protected API routes (require JWT authentication)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.Profile).Methods("GET")

	// Active-year setting
	api.HandleFunc("/settings/active-year", handlers.GetActiveYear).Methods("GET")
	api.HandleFunc("/settings/active-year", handlers.SetActiveYear).Methods("PUT")

	registerDepartmentRoutes(api)
	registerAnalyticsRoutes(api)

	return r
}

// registerDepartmentRoutes wires the quotation/order surface once for all
// three departments; the {department} path segment is validated in the
// handlers.
func registerDepartmentRoutes(api *mux.Router) {
	dept := api.PathPrefix("/{department}").Subrouter()

	dept.HandleFunc("/quotations", handlers.GetAllQuotations).Methods("GET")
	dept.HandleFunc("/quotations", handlers.CreateQuotation).Methods("POST")
	dept.HandleFunc("/quotations/export", handlers.ExportQuotations).Methods("GET")
	dept.HandleFunc("/quotations/extract", handlers.ExtractQuotation).Methods("POST")
	dept.HandleFunc("/quotations/{id}", handlers.GetQuotation).Methods("GET")
	dept.HandleFunc("/quotations/{id}", handlers.UpdateQuotation).Methods("PUT")
	dept.HandleFunc("/quotations/{id}", handlers.DeleteQuotation).Methods("DELETE")

	dept.HandleFunc("/orders", handlers.GetAllOrders).Methods("GET")
	dept.HandleFunc("/orders", handlers.CreateOrder).Methods("POST")
	dept.HandleFunc("/orders/export", handlers.ExportOrders).Methods("GET")
	dept.HandleFunc("/orders/bulk-delete", handlers.BulkDeleteOrders).Methods("POST")
	dept.HandleFunc("/orders/{id}", handlers.GetOrder).Methods("GET")
	dept.HandleFunc("/orders/{id}", handlers.UpdateOrder).Methods("PUT")
	dept.HandleFunc("/orders/{id}", handlers.DeleteOrder).Methods("DELETE")
	dept.HandleFunc("/orders/{id}/logs", handlers.GetOrderStatusLogs).Methods("GET")
}

func registerAnalyticsRoutes(api *mux.Router) {
	analytics := api.PathPrefix("/analytics").Subrouter()

	analytics.HandleFunc("/insureds", handlers.GetInsuredAnalytics).Methods("GET")
	analytics.HandleFunc("/brokers", handlers.GetBrokerAnalytics).Methods("GET")
	analytics.HandleFunc("/brokers/export", handlers.ExportBrokerAnalytics).Methods("GET")
	analytics.HandleFunc("/products", handlers.GetProductAnalytics).Methods("GET")
	analytics.HandleFunc("/business-types", handlers.GetBusinessTypeAnalytics).Methods("GET")
	analytics.HandleFunc("/timeseries", handlers.GetTimeSeriesAnalytics).Methods("GET")
	analytics.HandleFunc("/unmatched-confirmations", handlers.GetUnmatchedConfirmations).Methods("GET")
}
