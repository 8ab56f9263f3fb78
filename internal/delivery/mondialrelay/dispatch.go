package mondialrelay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sent is written back onto a shipment once the carrier assigned a reference
type Sent struct {
	TrackingReference string
	Service           string
	Delivery          bool // carrier assigned
	Printed           bool // label printed
	SendDate          time.Time
	SendEmployee      *string
}

// ShipmentWriter persists dispatch outcomes, one call per shipment
type ShipmentWriter interface {
	MarkSent(ctx context.Context, shipment *Shipment, sent Sent) error
}

// Result collects the outcome of one batch.
// The three lists are independent: a shipment may contribute to any of them.
type Result struct {
	BatchID    string           `json:"batchId"`
	References []string         `json:"references"`
	Labels     []string         `json:"labels"`
	Errors     []*ShipmentError `json:"errors"`
}

// Messages renders the batch errors for an operator
func (r *Result) Messages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Message())
	}
	return messages
}

type employeeKey struct{}

// WithEmployee attaches the user sending the shipments to ctx
func WithEmployee(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, employeeKey{}, employeeID)
}

// EmployeeFromContext returns the sending user, or nil for unattended runs
func EmployeeFromContext(ctx context.Context) *string {
	if id, ok := ctx.Value(employeeKey{}).(string); ok && id != "" {
		return &id
	}
	return nil
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithClock overrides the clock used for send dates
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// Dispatcher sends batches of shipments through one carrier session
type Dispatcher struct {
	client Client
	writer ShipmentWriter
	sink   LabelSink
	logger *zap.Logger
	now    func() time.Time
}

// NewDispatcher creates a dispatcher; a nil logger disables logging
func NewDispatcher(client Client, writer ShipmentWriter, sink LabelSink, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		client: client,
		writer: writer,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends shipments in order through a single session.
// Per-shipment problems end up in Result.Errors; only an invalid profile or an
// unavailable session is returned as an error, before any shipment is processed.
func (d *Dispatcher) Dispatch(ctx context.Context, profile *Profile, shipments []*Shipment) (*Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		BatchID:    uuid.NewString(),
		References: []string{},
		Labels:     []string{},
		Errors:     []*ShipmentError{},
	}
	logger := d.logger.With(zap.String("batch", result.BatchID), zap.Int64("carrier", profile.CarrierID))

	session, err := d.client.Open(ctx, profile.Credentials())
	if err != nil {
		if !errors.Is(err, ErrSessionUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
		}
		logger.Error("Failed to open session", zap.Error(err))
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close session", zap.Error(err))
		}
	}()

	for _, shipment := range shipments {
		if shipment == nil {
			continue
		}
		d.dispatchOne(ctx, logger, profile, session, shipment, result)
	}

	logger.Info("Batch dispatched",
		zap.Int("shipments", len(shipments)),
		zap.Int("references", len(result.References)),
		zap.Int("labels", len(result.Labels)),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, logger *zap.Logger, profile *Profile, session Session, shipment *Shipment, result *Result) {
	name := shipment.DisplayName()
	logger = logger.With(zap.String("shipment", shipment.Code))
	fail := func(e *ShipmentError) {
		e.Shipment = name
		result.Errors = append(result.Errors, e)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Shipment processing panicked", zap.Any("panic", r))
			fail(&ShipmentError{Kind: KindFault, Detail: fmt.Sprint(r)})
		}
	}()

	service := shipment.ResolveService(profile)
	if service == "" {
		fail(&ShipmentError{Kind: KindNoService})
		return
	}

	addr := shipment.DeliveryAddress
	if addr == nil || addr.Country == nil || addr.Country.Code == "" || addr.PickupPoint == "" {
		addrName := name
		if addr != nil && addr.Name != "" {
			addrName = addr.Name
		}
		fail(&ShipmentError{Kind: KindAddressIncomplete, Address: addrName})
		return
	}

	payload := BuildPayload(profile, shipment, service, shipment.Price(), profile.IncludeWeight)

	res, err := session.Create(ctx, payload)
	if err != nil {
		logger.Error("Not send shipment", zap.Error(err))
		fail(&ShipmentError{Kind: KindFault, Detail: err.Error()})
		return
	}
	if res == nil {
		logger.Error("Not send shipment: empty client response")
		fail(&ShipmentError{Kind: KindFault, Detail: "carrier client returned no response"})
		return
	}

	if res.Reference != "" {
		sent := Sent{
			TrackingReference: res.Reference,
			Service:           service,
			Delivery:          true,
			Printed:           true,
			SendDate:          d.now(),
			SendEmployee:      EmployeeFromContext(ctx),
		}
		// The carrier holds the shipment either way; a failed save is reported next to the reference
		result.References = append(result.References, shipment.Code)
		if err := d.writer.MarkSent(ctx, shipment, sent); err != nil {
			logger.Error("Failed to save shipment", zap.String("reference", res.Reference), zap.Error(err))
			fail(&ShipmentError{Kind: KindPersist, Detail: fmt.Sprintf("reference %s: %v", res.Reference, err)})
		} else {
			logger.Info("Send shipment", zap.String("reference", res.Reference))
		}
	} else {
		logger.Error("Not send shipment")
	}

	if len(res.Label) > 0 {
		path, err := d.sink.Write(res.Reference, profile.LabelExtension(), res.Label)
		if err != nil {
			logger.Error("Failed to store label", zap.Error(err))
			fail(&ShipmentError{Kind: KindLabelWrite, Detail: err.Error()})
		} else {
			logger.Info("Generated tmp label", zap.String("path", path))
			result.Labels = append(result.Labels, path)
		}
	} else {
		e := &ShipmentError{Kind: KindMissingLabel}
		fail(e)
		logger.Error(e.Message())
	}

	if res.Error != "" {
		e := &ShipmentError{Kind: KindRemoteRejection, Detail: res.Error}
		fail(e)
		logger.Error(e.Message())
	}
}

// FetchExistingLabels returns no labels: the carrier offers no endpoint to download
// labels of shipments already created.
func (d *Dispatcher) FetchExistingLabels(ctx context.Context, profile *Profile, shipments []*Shipment) ([]string, error) {
	return []string{}, nil
}
