package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/config"
	"github.com/fonelab/repairshopgo/internal/database"
	"github.com/fonelab/repairshopgo/internal/middleware"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// Router wraps the mux router with the process-wide collaborators every
// handler needs: the store, the auth gate, the view cache and the payload
// validator. Constructed once at startup and read-only afterwards.
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	gate     *middleware.AuthGate
	views    *viewcache.Cache
	validate *validator.Validate
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		gate:     middleware.NewAuthGate(cfg.JWTSecret),
		views:    viewcache.New(5 * time.Minute),
		validate: validator.New(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes (login/totp/register are the anonymous entry points)
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/totp", r.verifyTOTP).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")
	auth.Handle("/me", r.gate.RequireAPI(http.HandlerFunc(r.currentUser))).Methods("GET")
	auth.Handle("/totp/enroll", r.gate.RequireAPI(http.HandlerFunc(r.enrollTOTP))).Methods("POST")

	// Public price-quote lookup for the storefront page
	r.HandleFunc("/api/quote", r.quoteByModel).Methods("POST")

	// Protected data API: the gate is enforced here directly, page-level
	// redirects alone do not protect the underlying endpoints
	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(r.gate.RequireAPI))

	api.HandleFunc("/customers", r.listCustomers).Methods("GET")
	api.HandleFunc("/customers", r.createCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", r.getCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", r.updateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", r.deleteCustomer).Methods("DELETE")

	api.HandleFunc("/repairs", r.listRepairs).Methods("GET")
	api.HandleFunc("/repairs", r.createRepair).Methods("POST")
	api.HandleFunc("/repairs/{id}", r.getRepair).Methods("GET")
	api.HandleFunc("/repairs/{id}", r.updateRepair).Methods("PUT")
	api.HandleFunc("/repairs/{id}", r.deleteRepair).Methods("DELETE")
	api.HandleFunc("/repairs/{id}/receipt", r.repairReceipt).Methods("GET")

	api.HandleFunc("/warranties", r.listWarranties).Methods("GET")
	api.HandleFunc("/warranties/rework/{id}", r.reworkWarranty).Methods("PUT")
	api.HandleFunc("/warranties/{id}", r.deleteWarranty).Methods("DELETE")

	api.HandleFunc("/components", r.listComponents).Methods("GET")
	api.HandleFunc("/components", r.createComponent).Methods("POST")
	api.HandleFunc("/components/{id}", r.updateComponent).Methods("PUT")
	api.HandleFunc("/components/{id}", r.deleteComponent).Methods("DELETE")

	api.HandleFunc("/suppliers", r.listSuppliers).Methods("GET")
	api.HandleFunc("/suppliers", r.createSupplier).Methods("POST")
	api.HandleFunc("/suppliers/{id}", r.getSupplier).Methods("GET")
	api.HandleFunc("/suppliers/{id}", r.updateSupplier).Methods("PUT")
	api.HandleFunc("/suppliers/{id}", r.deleteSupplier).Methods("DELETE")

	api.HandleFunc("/brands", r.listBrands).Methods("GET")
	api.HandleFunc("/brands", r.createBrand).Methods("POST")
	api.HandleFunc("/brands/{id}", r.updateBrand).Methods("PUT")
	api.HandleFunc("/brands/{id}", r.deleteBrand).Methods("DELETE")
	api.HandleFunc("/brands/{id}/phones", r.listBrandPhones).Methods("GET")

	api.HandleFunc("/phones", r.createPhone).Methods("POST")
	api.HandleFunc("/phones/{id}", r.updatePhone).Methods("PUT")
	api.HandleFunc("/phones/{id}", r.deletePhone).Methods("DELETE")

	api.HandleFunc("/categories", r.listCategories).Methods("GET")
	api.HandleFunc("/categories", r.createCategory).Methods("POST")
	api.HandleFunc("/categories/{id}", r.updateCategory).Methods("PUT")
	api.HandleFunc("/categories/{id}", r.deleteCategory).Methods("DELETE")

	api.HandleFunc("/category-items", r.createCategoryItem).Methods("POST")
	api.HandleFunc("/category-items/{id}", r.updateCategoryItem).Methods("PUT")
	api.HandleFunc("/category-items/{id}", r.deleteCategoryItem).Methods("DELETE")

	api.HandleFunc("/orders", r.listOrders).Methods("GET")
	api.HandleFunc("/orders", r.createOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", r.getOrder).Methods("GET")

	api.HandleFunc("/settings", r.listSettings).Methods("GET")
	api.HandleFunc("/settings", r.upsertSetting).Methods("POST")

	api.HandleFunc("/form/options/{kind}", r.formOptions).Methods("GET")

	// Dashboard pages redirect anonymous visitors to /login; the actual
	// views are the static SPA build
	static := http.FileServer(http.Dir(cfg.StaticDir))
	r.PathPrefix("/dashboard").Handler(r.gate.RequirePage(static))
	r.PathPrefix("/").Handler(static)

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends the uniform mutation failure shape
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"msg":    message,
		"status": "error",
	})
}

// respondSuccess sends the uniform mutation success shape
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{
		"msg":    message,
		"status": "success",
	})
}
