package dash_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dash-protocol/dash-go/pkg/dispatch"
	"github.com/dash-protocol/dash-go/pkg/log"
	"github.com/dash-protocol/dash-go/pkg/permission"
	"github.com/dash-protocol/dash-go/pkg/providers/simulated"
	"github.com/dash-protocol/dash-go/pkg/transport"
	"github.com/dash-protocol/dash-go/pkg/version"
	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// host wires a full request path: receiver, dispatcher, simulated phone,
// file-backed permission store, protocol log.
type host struct {
	store    permission.Store
	phone    *simulated.Phone
	receiver *transport.Receiver
	logPath  string

	responses chan *wire.Dictionary
}

func (h *host) Send(_ uuid.UUID, d *wire.Dictionary) error {
	h.responses <- d
	return nil
}

func newHost(t *testing.T) *host {
	t.Helper()
	dir := t.TempDir()

	store, err := permission.NewFileStore(filepath.Join(dir, "apps.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logPath := filepath.Join(dir, "host.dlog")
	plog, err := log.NewFileLogger(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = plog.Close() })

	phone := simulated.NewPhone(simulated.Snapshot{
		BatteryPercent:    82,
		OperatorName:      "DashNet",
		SignalPercent:     70,
		WifiSSID:          `"HomeNet"`,
		StorageFreeBytes:  12 << 30,
		StorageTotalBytes: 64 << 30,
		UnreadSMS:         2,
	}, simulated.WithSignalDelay(10*time.Millisecond), simulated.WithSignalHold(50*time.Millisecond))

	h := &host{
		store:     store,
		phone:     phone,
		logPath:   logPath,
		responses: make(chan *wire.Dictionary, 8),
	}

	dispatcher, err := dispatch.New(dispatch.Config{
		Store:          store,
		Sender:         h,
		Data:           phone,
		Features:       phone,
		ProtocolLogger: plog,
	})
	require.NoError(t, err)

	receiver, err := transport.NewReceiver(transport.ReceiverConfig{Handler: dispatcher})
	require.NoError(t, err)
	t.Cleanup(func() { _ = receiver.Close() })
	h.receiver = receiver

	return h
}

func (h *host) request(t *testing.T, sender uuid.UUID, build func(*wire.Dictionary)) {
	t.Helper()
	d := wire.NewDictionary()
	d.AddInt32(wire.AppKeyUsesDashAPI, 0)
	d.AddString(wire.AppKeyLibraryVersion, version.Current)
	d.AddString(wire.AppKeyAppName, "Watchface")
	build(d)

	raw, err := wire.Encode(d)
	require.NoError(t, err)
	require.NoError(t, h.receiver.Receive(context.Background(), transport.InboundMessage{
		Raw:    raw,
		Sender: sender,
	}))
}

func (h *host) response(t *testing.T) *wire.Dictionary {
	t.Helper()
	select {
	case d := <-h.responses:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no response")
		return nil
	}
}

func TestE2E_DataRequest(t *testing.T) {
	h := newHost(t)
	app := uuid.New()

	h.request(t, app, func(d *wire.Dictionary) {
		d.AddInt32(wire.RequestTypeGetData, 0)
		d.AddInt32(wire.AppKeyDataType, int32(wire.DataTypeBatteryPercent))
	})

	resp := h.response(t)
	code, _ := resp.Int32(wire.AppKeyErrorCode)
	assert.EqualValues(t, wire.ErrorCodeSuccess, code)
	value, ok := resp.Int32(wire.AppKeyDataValue)
	require.True(t, ok)
	assert.Equal(t, int32(82), value)

	// The caller is now a known app.
	require.Len(t, h.store.List(), 1)
	name, _ := h.store.Name(app)
	assert.Equal(t, "Watchface", name)
}

func TestE2E_PermissionLifecycle(t *testing.T) {
	h := newHost(t)
	app := uuid.New()

	setWifi := func(d *wire.Dictionary) {
		d.AddInt32(wire.RequestTypeSetFeature, 0)
		d.AddInt32(wire.AppKeyFeatureType, int32(wire.FeatureTypeWifi))
		d.AddInt32(wire.AppKeyFeatureState, int32(wire.FeatureStateOn))
	}

	// First attempt is denied; the app becomes known but not permitted.
	h.request(t, app, setWifi)
	resp := h.response(t)
	code, _ := resp.Int32(wire.AppKeyErrorCode)
	assert.EqualValues(t, wire.ErrorCodeNoPermissions, code)

	state, err := h.phone.FeatureState(context.Background(), uint32(wire.FeatureTypeWifi))
	require.NoError(t, err)
	assert.EqualValues(t, wire.FeatureStateOff, state)

	// After a grant the same request goes through.
	require.NoError(t, h.store.SetPermitted(app, true))
	h.request(t, app, setWifi)
	resp = h.response(t)
	code, _ = resp.Int32(wire.AppKeyErrorCode)
	assert.EqualValues(t, wire.ErrorCodeSuccess, code)

	state, err = h.phone.FeatureState(context.Background(), uint32(wire.FeatureTypeWifi))
	require.NoError(t, err)
	assert.EqualValues(t, wire.FeatureStateOn, state)

	// Revocation takes effect immediately.
	require.NoError(t, h.store.SetPermitted(app, false))
	h.request(t, app, setWifi)
	resp = h.response(t)
	code, _ = resp.Int32(wire.AppKeyErrorCode)
	assert.EqualValues(t, wire.ErrorCodeNoPermissions, code)
}

func TestE2E_AsyncSignalStrength(t *testing.T) {
	h := newHost(t)

	h.request(t, uuid.New(), func(d *wire.Dictionary) {
		d.AddInt32(wire.RequestTypeGetData, 0)
		d.AddInt32(wire.AppKeyDataType, int32(wire.DataTypeGSMStrength))
	})

	start := time.Now()
	resp := h.response(t)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "response held for the observer")

	value, ok := resp.Int32(wire.AppKeyDataValue)
	require.True(t, ok)
	assert.Equal(t, int32(70), value)
}

func TestE2E_VersionRejection(t *testing.T) {
	h := newHost(t)
	app := uuid.New()

	d := wire.NewDictionary()
	d.AddInt32(wire.AppKeyUsesDashAPI, 0)
	d.AddString(wire.AppKeyLibraryVersion, "9.0")
	d.AddString(wire.AppKeyAppName, "Future App")
	d.AddInt32(wire.RequestTypeIsAvailable, 0)

	raw, err := wire.Encode(d)
	require.NoError(t, err)
	require.NoError(t, h.receiver.Receive(context.Background(), transport.InboundMessage{Raw: raw, Sender: app}))

	resp := h.response(t)
	assert.Equal(t, 2, resp.Len())
	code, _ := resp.Int32(wire.AppKeyErrorCode)
	assert.EqualValues(t, wire.ErrorCodeWrongVersion, code)

	// Rejected callers are not recorded.
	assert.Empty(t, h.store.List())
}

func TestE2E_ProtocolLogRoundTrip(t *testing.T) {
	h := newHost(t)
	app := uuid.New()

	h.request(t, app, func(d *wire.Dictionary) {
		d.AddInt32(wire.RequestTypeGetData, 0)
		d.AddInt32(wire.AppKeyDataType, int32(wire.DataTypeUnreadSMSCount))
	})
	h.response(t)

	// The outbound event lands just after the response is delivered.
	var events []log.Event
	require.Eventually(t, func() bool {
		reader, err := log.NewFilteredReader(h.logPath, log.Filter{AppID: app.String()})
		if err != nil {
			return false
		}
		defer reader.Close()
		events, err = reader.ReadAll()
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, log.DirectionIn, events[0].Direction)
	assert.Equal(t, log.DirectionOut, events[1].Direction)
	require.NotNil(t, events[1].Message)
	require.NotNil(t, events[1].Message.ErrorCode)
	assert.Equal(t, wire.ErrorCodeSuccess, *events[1].Message.ErrorCode)
	assert.NotNil(t, events[1].Message.ProcessingTime)
}

func TestE2E_ForeignTrafficIgnored(t *testing.T) {
	h := newHost(t)

	// No protocol marker: a sports app sharing the bridge.
	d := wire.NewDictionary()
	d.AddInt32(12345, 1)
	raw, err := wire.Encode(d)
	require.NoError(t, err)
	require.NoError(t, h.receiver.Receive(context.Background(), transport.InboundMessage{Raw: raw, Sender: uuid.New()}))

	select {
	case <-h.responses:
		t.Fatal("foreign traffic produced a response")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, h.store.List())
}
