package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xelth-com/eckwms-mondialrelay/internal/buildinfo"
	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/middleware"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// ShippingService is the carrier-independent send shipments workflow
type ShippingService interface {
	Methods() []string
	QueueShipments(ctx context.Context, carrierID int64, pickingIDs []int64) error
	SendShipments(ctx context.Context, carrierID int64, pickingIDs []int64) (*delivery.BatchResult, error)
	PrintLabels(ctx context.Context, carrierID int64, pickingIDs []int64) ([]string, error)
	TestConnection(ctx context.Context, carrierID int64) error
	ListShipments(ctx context.Context, status string, limit int) ([]models.StockPickingDelivery, error)
	GetDeliveryStatus(ctx context.Context, pickingID int64) (*models.StockPickingDelivery, error)
	GetTrackingHistory(ctx context.Context, pickingDeliveryID int64) ([]models.DeliveryTracking, error)
	ListCarriers(ctx context.Context) ([]models.DeliveryCarrier, error)
	CreateCarrier(ctx context.Context, name, method, defaultService string) (*models.DeliveryCarrier, error)
	GetCarrier(ctx context.Context, id int64) (*models.DeliveryCarrier, error)
	ToggleCarrier(ctx context.Context, id int64) (*models.DeliveryCarrier, error)
}

// MondialRelaySettings manages the Mondial Relay extension records
type MondialRelaySettings interface {
	SaveProfile(ctx context.Context, record *models.MondialRelayProfile) error
	SetPickupPoint(ctx context.Context, partnerID int64, pickupPoint string) error
	SetContentDescription(ctx context.Context, pickingID int64, content string) error
}

// Router wraps the mux router and its services
type Router struct {
	*mux.Router
	db       *database.DB
	secret   string
	logger   *zap.Logger
	shipping ShippingService
	relay    MondialRelaySettings
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, jwtSecret string, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		secret: jwtSecret,
		logger: logger,
	}
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(jwtSecret))

	protected.HandleFunc("/carriers", r.listCarriers).Methods("GET")
	protected.HandleFunc("/carriers", r.createCarrier).Methods("POST")
	protected.HandleFunc("/carriers/methods", r.listMethods).Methods("GET")
	protected.HandleFunc("/carriers/{id:[0-9]+}", r.getCarrier).Methods("GET")
	protected.HandleFunc("/carriers/{id:[0-9]+}/toggle", r.toggleCarrier).Methods("POST")
	protected.HandleFunc("/carriers/{id:[0-9]+}/test", r.testConnection).Methods("POST")
	protected.HandleFunc("/carriers/{id:[0-9]+}/mondialrelay", r.saveMondialRelayProfile).Methods("PUT")
	protected.HandleFunc("/carriers/{id:[0-9]+}/queue", r.queueShipments).Methods("POST")
	protected.HandleFunc("/carriers/{id:[0-9]+}/send", r.sendShipments).Methods("POST")
	protected.HandleFunc("/carriers/{id:[0-9]+}/labels", r.printLabels).Methods("POST")

	protected.HandleFunc("/partners/{id:[0-9]+}/pickup-point", r.setPickupPoint).Methods("PUT")
	protected.HandleFunc("/pickings/{id:[0-9]+}/content", r.setContentDescription).Methods("PUT")

	protected.HandleFunc("/shipments", r.listShipments).Methods("GET")
	protected.HandleFunc("/shipments/{id:[0-9]+}", r.getShipment).Methods("GET")
	protected.HandleFunc("/shipments/{id:[0-9]+}/tracking", r.getTracking).Methods("GET")

	return r
}

// Handler returns the router wrapped with path normalization, which has to run before route matching
func (r *Router) Handler() http.Handler {
	return middleware.CaseInsensitiveMiddleware(r.Router)
}

// SetShippingService sets the shipping service for delivery endpoints
func (r *Router) SetShippingService(svc ShippingService) {
	r.shipping = svc
}

// SetMondialRelay sets the Mondial Relay settings service
func (r *Router) SetMondialRelay(settings MondialRelaySettings) {
	r.relay = settings
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns build and process information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "running",
		"build":  buildinfo.Get(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
