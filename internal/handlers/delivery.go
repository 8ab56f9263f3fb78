package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
	"github.com/xelth-com/eckwms-mondialrelay/internal/services/shipping"
)

// BatchRequest selects the pickings of a queue, send or labels call
type BatchRequest struct {
	PickingIDs []int64 `json:"pickingIds"`
}

// CarrierRequest creates a carrier
type CarrierRequest struct {
	Name           string `json:"name"`
	Method         string `json:"method"`
	DefaultService string `json:"defaultService"`
}

// MondialRelayProfileRequest carries the account settings of a Mondial Relay carrier
type MondialRelayProfileRequest struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	CustomerID         string `json:"customerId"`
	Version            string `json:"version"`
	Culture            string `json:"culture"`
	LabelFormat        string `json:"labelFormat"`
	PDFFormat          string `json:"pdfFormat"`
	ContentDescription string `json:"contentDescription"`
	IncludeWeight      bool   `json:"includeWeight"`
	WeightAPIUnit      string `json:"weightApiUnit"`
	WeightUnit         string `json:"weightUnit"`
	TimeoutSeconds     int    `json:"timeoutSeconds"`
	Debug              bool   `json:"debug"`
	ReferenceOrigin    bool   `json:"referenceOrigin"`
	DefaultService     string `json:"defaultService"`
}

func pathID(req *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	return id, err == nil && id > 0
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, mondialrelay.ErrProfileInvalid), errors.Is(err, delivery.ErrUnknownMethod):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shipping.ErrCarrierInactive), errors.Is(err, shipping.ErrAlreadyShipped):
		return http.StatusConflict
	case errors.Is(err, mondialrelay.ErrSessionUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, mondialrelay.ErrTestUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		r.logger.Error("Request failed", zap.String("path", req.URL.Path), zap.Error(err))
	}
	respondError(w, status, err.Error())
}

func (r *Router) ready(w http.ResponseWriter) bool {
	if r.shipping == nil {
		respondError(w, http.StatusServiceUnavailable, "Shipping service not available")
		return false
	}
	return true
}

func decodeBatch(w http.ResponseWriter, req *http.Request) (int64, []int64, bool) {
	carrierID, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid carrier id")
		return 0, nil, false
	}
	var body BatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return 0, nil, false
	}
	if len(body.PickingIDs) == 0 {
		respondError(w, http.StatusBadRequest, "pickingIds is required")
		return 0, nil, false
	}
	return carrierID, body.PickingIDs, true
}

// listCarriers returns all delivery carriers
func (r *Router) listCarriers(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	carriers, err := r.shipping.ListCarriers(req.Context())
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, carriers)
}

// listMethods returns the carrier API methods a carrier can use
func (r *Router) listMethods(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	respondJSON(w, http.StatusOK, r.shipping.Methods())
}

// createCarrier creates a carrier for a registered method
func (r *Router) createCarrier(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	var body CarrierRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Name == "" || body.Method == "" {
		respondError(w, http.StatusBadRequest, "name and method are required")
		return
	}
	carrier, err := r.shipping.CreateCarrier(req.Context(), body.Name, body.Method, body.DefaultService)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusCreated, carrier)
}

func (r *Router) getCarrier(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid carrier id")
		return
	}
	carrier, err := r.shipping.GetCarrier(req.Context(), id)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, carrier)
}

func (r *Router) toggleCarrier(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid carrier id")
		return
	}
	carrier, err := r.shipping.ToggleCarrier(req.Context(), id)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, carrier)
}

// testConnection runs the carrier's configuration check
func (r *Router) testConnection(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid carrier id")
		return
	}
	if err := r.shipping.TestConnection(req.Context(), id); err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Connection successful"})
}

// saveMondialRelayProfile creates or replaces the Mondial Relay settings of a carrier
func (r *Router) saveMondialRelayProfile(w http.ResponseWriter, req *http.Request) {
	if r.relay == nil {
		respondError(w, http.StatusServiceUnavailable, "Mondial Relay not available")
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid carrier id")
		return
	}
	var body MondialRelayProfileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	record := &models.MondialRelayProfile{
		CarrierID:          id,
		Username:           body.Username,
		Password:           body.Password,
		CustomerID:         body.CustomerID,
		Version:            body.Version,
		Culture:            body.Culture,
		LabelFormat:        body.LabelFormat,
		PDFFormat:          body.PDFFormat,
		ContentDescription: body.ContentDescription,
		IncludeWeight:      body.IncludeWeight,
		WeightAPIUnit:      body.WeightAPIUnit,
		WeightUnit:         body.WeightUnit,
		TimeoutSeconds:     body.TimeoutSeconds,
		Debug:              body.Debug,
		ReferenceOrigin:    body.ReferenceOrigin,
		DefaultService:     body.DefaultService,
	}
	if err := r.relay.SaveProfile(req.Context(), record); err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (r *Router) setPickupPoint(w http.ResponseWriter, req *http.Request) {
	if r.relay == nil {
		respondError(w, http.StatusServiceUnavailable, "Mondial Relay not available")
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid partner id")
		return
	}
	var body struct {
		PickupPoint string `json:"pickupPoint"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.relay.SetPickupPoint(req.Context(), id, body.PickupPoint); err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"partnerId": id, "pickupPoint": body.PickupPoint})
}

func (r *Router) setContentDescription(w http.ResponseWriter, req *http.Request) {
	if r.relay == nil {
		respondError(w, http.StatusServiceUnavailable, "Mondial Relay not available")
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid picking id")
		return
	}
	var body struct {
		ContentDescription string `json:"contentDescription"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.relay.SetContentDescription(req.Context(), id, body.ContentDescription); err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"pickingId": id, "contentDescription": body.ContentDescription})
}

// queueShipments hands pickings to the background worker
func (r *Router) queueShipments(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	carrierID, pickingIDs, ok := decodeBatch(w, req)
	if !ok {
		return
	}
	if err := r.shipping.QueueShipments(req.Context(), carrierID, pickingIDs); err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]interface{}{"queued": len(pickingIDs)})
}

// sendShipments dispatches pickings now and reports per-shipment problems
func (r *Router) sendShipments(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	carrierID, pickingIDs, ok := decodeBatch(w, req)
	if !ok {
		return
	}
	result, err := r.shipping.SendShipments(req.Context(), carrierID, pickingIDs)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) printLabels(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	carrierID, pickingIDs, ok := decodeBatch(w, req)
	if !ok {
		return
	}
	labels, err := r.shipping.PrintLabels(req.Context(), carrierID, pickingIDs)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"labels": labels})
}

func (r *Router) listShipments(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	shipments, err := r.shipping.ListShipments(req.Context(), req.URL.Query().Get("status"), limit)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, shipments)
}

// getShipment returns the delivery record of a picking
func (r *Router) getShipment(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid picking id")
		return
	}
	record, err := r.shipping.GetDeliveryStatus(req.Context(), id)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (r *Router) getTracking(w http.ResponseWriter, req *http.Request) {
	if !r.ready(w) {
		return
	}
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid picking id")
		return
	}
	record, err := r.shipping.GetDeliveryStatus(req.Context(), id)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	history, err := r.shipping.GetTrackingHistory(req.Context(), record.ID)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
