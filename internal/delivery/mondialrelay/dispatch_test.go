package mondialrelay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	session *stubSession
	openErr error
	opened  int
	creds   Credentials
}

func (c *stubClient) Open(ctx context.Context, creds Credentials) (Session, error) {
	c.opened++
	c.creds = creds
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.session, nil
}

// stubSession answers by order number
type stubSession struct {
	results map[string]*CreateResult
	errs    map[string]error
	panics  map[string]bool
	// nilResults answers (nil, nil) for these order numbers
	nilResults map[string]bool
	calls      []Payload
	closed     int
}

func newStubSession() *stubSession {
	return &stubSession{
		results: map[string]*CreateResult{},
		errs:    map[string]error{},
		panics:  map[string]bool{},
	}
}

func (s *stubSession) Create(ctx context.Context, payload Payload) (*CreateResult, error) {
	s.calls = append(s.calls, payload)
	orderNo := payload.String(FieldOrderNo)
	if s.panics[orderNo] {
		panic("client exploded")
	}
	if err := s.errs[orderNo]; err != nil {
		return nil, err
	}
	if s.nilResults[orderNo] {
		return nil, nil
	}
	if res, ok := s.results[orderNo]; ok {
		return res, nil
	}
	return &CreateResult{}, nil
}

func (s *stubSession) Close() error {
	s.closed++
	return nil
}

type stubWriter struct {
	sent map[string]Sent
	err  error
}

func (w *stubWriter) MarkSent(ctx context.Context, shipment *Shipment, sent Sent) error {
	if w.err != nil {
		return w.err
	}
	if w.sent == nil {
		w.sent = map[string]Sent{}
	}
	w.sent[shipment.Code] = sent
	return nil
}

type stubSink struct {
	written [][]byte
	err     error
}

func (s *stubSink) Write(reference, ext string, label []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.written = append(s.written, label)
	return fmt.Sprintf("/labels/%s.%s", reference, ext), nil
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestDispatcher() (*Dispatcher, *stubClient, *stubWriter, *stubSink) {
	client := &stubClient{session: newStubSession()}
	writer := &stubWriter{}
	sink := &stubSink{}
	d := NewDispatcher(client, writer, sink, nil, WithClock(func() time.Time { return fixedNow }))
	return d, client, writer, sink
}

func TestDispatchBatchWithIncompleteAddress(t *testing.T) {
	d, client, writer, sink := newTestDispatcher()
	client.session.results["WH/OUT/0001"] = &CreateResult{Reference: "31245678", Label: []byte("%PDF")}

	ok := testShipment("WH/OUT/0001")
	missing := testShipment("WH/OUT/0002")
	missing.DeliveryAddress.PickupPoint = ""

	ctx := WithEmployee(context.Background(), "user-1")
	result, err := d.Dispatch(ctx, testProfile(), []*Shipment{ok, missing})
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, []string{"WH/OUT/0001"}, result.References)
	assert.Equal(t, []string{"/labels/31245678.pdf"}, result.Labels)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindAddressIncomplete, result.Errors[0].Kind)
	assert.Equal(t, "WH/OUT/0002", result.Errors[0].Shipment)
	assert.Equal(t, []string{`Delivery address "Jane Doe" has not a country or MondialRelay location.`}, result.Messages())

	require.Len(t, client.session.calls, 1, "incomplete address makes no client call")
	payload := client.session.calls[0]
	assert.Equal(t, "24R", payload[FieldDeliveryMode])
	assert.Equal(t, "FR12345", payload[FieldDeliveryLocation])

	sent := writer.sent["WH/OUT/0001"]
	assert.Equal(t, "31245678", sent.TrackingReference)
	assert.Equal(t, "24R", sent.Service)
	assert.True(t, sent.Delivery)
	assert.True(t, sent.Printed)
	assert.Equal(t, fixedNow, sent.SendDate)
	require.NotNil(t, sent.SendEmployee)
	assert.Equal(t, "user-1", *sent.SendEmployee)
	assert.Len(t, writer.sent, 1)

	assert.Equal(t, [][]byte{[]byte("%PDF")}, sink.written)
	assert.Equal(t, 1, client.opened)
	assert.Equal(t, 1, client.session.closed)
	assert.Equal(t, "BDTEST", client.creds.CustomerID)
}

func TestDispatchMissingService(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	s := testShipment("WH/OUT/0001")
	s.CarrierService = ""

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{s})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindNoService, result.Errors[0].Kind)
	assert.Equal(t, "Select a service or default service in MondialRelay API", result.Errors[0].Message())
	assert.Empty(t, client.session.calls)
	assert.Empty(t, result.References)
}

func TestDispatchAddressWithoutCountry(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	noCountry := testShipment("WH/OUT/0001")
	noCountry.DeliveryAddress.Country = nil
	noAddress := testShipment("WH/OUT/0002")
	noAddress.DeliveryAddress = nil

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{noCountry, noAddress})
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, KindAddressIncomplete, result.Errors[0].Kind)
	assert.Equal(t, "Jane Doe", result.Errors[0].Address)
	assert.Equal(t, "WH/OUT/0002", result.Errors[1].Address, "falls back to the shipment name")
	assert.Empty(t, client.session.calls)
}

func TestDispatchServiceFallback(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	profile := testProfile()
	profile.DefaultService = "HOM"

	s := testShipment("WH/OUT/0001")
	s.CarrierService = ""

	_, err := d.Dispatch(context.Background(), profile, []*Shipment{s})
	require.NoError(t, err)
	require.Len(t, client.session.calls, 1)
	assert.Equal(t, "HOM", client.session.calls[0][FieldDeliveryMode])
}

func TestDispatchNoReference(t *testing.T) {
	d, _, writer, _ := newTestDispatcher()

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	assert.Empty(t, result.References)
	assert.Empty(t, writer.sent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindMissingLabel, result.Errors[0].Kind)
}

func TestDispatchRemoteRejectionKeepsReference(t *testing.T) {
	d, client, writer, _ := newTestDispatcher()
	client.session.results["WH/OUT/0001"] = &CreateResult{
		Reference: "31245678",
		Label:     []byte("%PDF"),
		Error:     "Poids du colis invalide",
	}

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	assert.Equal(t, []string{"WH/OUT/0001"}, result.References)
	assert.Len(t, result.Labels, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindRemoteRejection, result.Errors[0].Kind)
	assert.Equal(t, "Not send shipment WH/OUT/0001. Poids du colis invalide", result.Errors[0].Message())
	assert.Contains(t, writer.sent, "WH/OUT/0001")
}

func TestDispatchRemoteRejectionWithoutLabel(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	client.session.results["WH/OUT/0001"] = &CreateResult{Error: "Compte inconnu"}

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, KindMissingLabel, result.Errors[0].Kind)
	assert.Equal(t, KindRemoteRejection, result.Errors[1].Kind)
	assert.Empty(t, result.References)
}

func TestDispatchFaultsDoNotStopBatch(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	client.session.errs["WH/OUT/0001"] = errors.New("connection reset")
	client.session.panics["WH/OUT/0002"] = true
	client.session.results["WH/OUT/0003"] = &CreateResult{Reference: "333", Label: []byte("%PDF")}

	shipments := []*Shipment{testShipment("WH/OUT/0001"), testShipment("WH/OUT/0002"), testShipment("WH/OUT/0003")}
	result, err := d.Dispatch(context.Background(), testProfile(), shipments)
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, KindFault, result.Errors[0].Kind)
	assert.Equal(t, "WH/OUT/0001", result.Errors[0].Shipment)
	assert.Contains(t, result.Errors[0].Detail, "connection reset")
	assert.Equal(t, KindFault, result.Errors[1].Kind)
	assert.Equal(t, "WH/OUT/0002", result.Errors[1].Shipment)
	assert.Contains(t, result.Errors[1].Detail, "client exploded")

	assert.Equal(t, []string{"WH/OUT/0003"}, result.References)
	assert.Len(t, client.session.calls, 3)
	assert.Equal(t, 1, client.session.closed, "session released once")
}

func TestDispatchSessionUnavailable(t *testing.T) {
	d, client, writer, _ := newTestDispatcher()
	client.openErr = errors.New("dial tcp: i/o timeout")

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionUnavailable)
	assert.Nil(t, result)
	assert.Empty(t, writer.sent)
	assert.Empty(t, client.session.calls)
}

func TestDispatchInvalidProfile(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	profile := testProfile()
	profile.CustomerID = ""

	_, err := d.Dispatch(context.Background(), profile, []*Shipment{testShipment("WH/OUT/0001")})
	assert.ErrorIs(t, err, ErrProfileInvalid)
	assert.Equal(t, 0, client.opened)
}

func TestDispatchPersistFailure(t *testing.T) {
	d, client, writer, _ := newTestDispatcher()
	writer.err = errors.New("database is locked")
	client.session.results["WH/OUT/0001"] = &CreateResult{Reference: "31245678", Label: []byte("%PDF")}

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	assert.Equal(t, []string{"WH/OUT/0001"}, result.References, "carrier assigned a reference")
	assert.Len(t, result.Labels, 1, "label is still stored")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindPersist, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message(), "31245678")
}

func TestDispatchEmptyClientResponse(t *testing.T) {
	d, client, writer, _ := newTestDispatcher()
	client.session.nilResults = map[string]bool{"WH/OUT/0001": true}

	result, err := d.Dispatch(context.Background(), testProfile(),
		[]*Shipment{testShipment("WH/OUT/0001"), testShipment("WH/OUT/0002")})
	require.NoError(t, err)

	require.NotEmpty(t, result.Errors)
	first := result.Errors[0]
	assert.Equal(t, KindFault, first.Kind)
	assert.Equal(t, "WH/OUT/0001", first.Shipment)
	assert.Equal(t, "carrier client returned no response", first.Detail)
	assert.NotContains(t, first.Message(), "nil pointer")
	assert.NotContains(t, writer.sent, "WH/OUT/0001")
	assert.Len(t, client.session.calls, 2, "batch continues")
	assert.Equal(t, 1, client.session.closed)
}

func TestDispatchLabelWriteFailure(t *testing.T) {
	d, client, _, sink := newTestDispatcher()
	sink.err = errors.New("disk full")
	client.session.results["WH/OUT/0001"] = &CreateResult{Reference: "31245678", Label: []byte("%PDF")}

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	assert.Equal(t, []string{"WH/OUT/0001"}, result.References)
	assert.Empty(t, result.Labels)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindLabelWrite, result.Errors[0].Kind)
}

func TestDispatchUnattended(t *testing.T) {
	d, client, writer, _ := newTestDispatcher()
	client.session.results["WH/OUT/0001"] = &CreateResult{Reference: "1", Label: []byte("x")}

	result, err := d.Dispatch(context.Background(), testProfile(), []*Shipment{nil, testShipment("WH/OUT/0001")})
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Nil(t, writer.sent["WH/OUT/0001"].SendEmployee)
}

func TestDispatchEmptyBatch(t *testing.T) {
	d, client, _, _ := newTestDispatcher()

	result, err := d.Dispatch(context.Background(), testProfile(), nil)
	require.NoError(t, err)
	assert.NotNil(t, result.References)
	assert.NotNil(t, result.Labels)
	assert.NotNil(t, result.Errors)
	assert.Equal(t, 1, client.session.closed)
}

func TestFetchExistingLabels(t *testing.T) {
	d, client, _, _ := newTestDispatcher()

	labels, err := d.FetchExistingLabels(context.Background(), testProfile(), []*Shipment{testShipment("WH/OUT/0001")})
	require.NoError(t, err)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)

	labels, err = d.FetchExistingLabels(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, 0, client.opened)
}

func TestEmployeeFromContext(t *testing.T) {
	assert.Nil(t, EmployeeFromContext(context.Background()))
	assert.Nil(t, EmployeeFromContext(WithEmployee(context.Background(), "")))

	id := EmployeeFromContext(WithEmployee(context.Background(), "user-7"))
	require.NotNil(t, id)
	assert.Equal(t, "user-7", *id)
}
