package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dash-protocol/dash-go/pkg/log"
	"github.com/dash-protocol/dash-go/pkg/permission"
	"github.com/dash-protocol/dash-go/pkg/version"
	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
)

// DefaultMaxHold bounds the deferred-send window for async data sources.
// Matches the phone-side wait for the signal strength observer.
const DefaultMaxHold = 2 * time.Second

// Config configures a Dispatcher.
type Config struct {
	// Store gates mutating requests. Required.
	Store permission.Store

	// Sender delivers assembled responses. Required.
	Sender Sender

	// Data resolves GetData requests. Optional; absent means no data
	// values are appended.
	Data DataProvider

	// Features resolves GetFeature/SetFeature requests. Optional; absent
	// means feature requests report wire.ErrorCodeUnavailable.
	Features FeatureProvider

	// Notifier surfaces denied SetFeature attempts to the user. Optional.
	Notifier Notifier

	// MaxHold caps the deferred-send window (default DefaultMaxHold).
	MaxHold time.Duration

	// ProtocolLogger captures protocol events. Optional.
	ProtocolLogger log.Logger

	// Logger for operational debug output. Optional.
	Logger *slog.Logger
}

// Dispatcher is the Dash request/response state machine.
// One Dispatcher serves all callers; Handle may be invoked concurrently.
type Dispatcher struct {
	store    permission.Store
	sender   Sender
	data     DataProvider
	features FeatureProvider
	notifier Notifier
	maxHold  time.Duration
	host     version.Version

	plog   log.Logger
	logger *slog.Logger
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("permission store is required")
	}
	if cfg.Sender == nil {
		return nil, fmt.Errorf("sender is required")
	}

	host, err := version.Parse(version.Current)
	if err != nil {
		return nil, fmt.Errorf("bad host version %q: %w", version.Current, err)
	}

	maxHold := cfg.MaxHold
	if maxHold <= 0 {
		maxHold = DefaultMaxHold
	}

	plog := cfg.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Dispatcher{
		store:    cfg.Store,
		sender:   cfg.Sender,
		data:     cfg.Data,
		features: cfg.Features,
		notifier: cfg.Notifier,
		maxHold:  maxHold,
		host:     host,
		plog:     plog,
		logger:   logger,
	}, nil
}

// Handle processes one raw inbound message from sender. Every outcome is a
// response, a silent drop, or a logged no-op; faults never escape.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte, sender uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in dispatch", "app_id", sender, "panic", r)
			d.plog.Log(log.Event{
				Timestamp: time.Now(),
				AppID:     sender.String(),
				Direction: log.DirectionIn,
				Category:  log.CategoryError,
				Error:     &log.ErrorEventData{Message: fmt.Sprintf("panic: %v", r)},
			})
		}
	}()

	start := time.Now()

	in, err := wire.Decode(raw)
	if err != nil {
		// Malformed input: drop, do not respond.
		d.logger.Debug("dropping malformed message", "app_id", sender, "err", err)
		d.plog.Log(log.Event{
			Timestamp: start,
			AppID:     sender.String(),
			Direction: log.DirectionIn,
			Category:  log.CategoryDrop,
			Drop:      &log.DropEvent{Reason: "malformed payload"},
		})
		return
	}

	d.plog.Log(log.Event{
		Timestamp: start,
		AppID:     sender.String(),
		Direction: log.DirectionIn,
		Category:  log.CategoryMessage,
		Message:   &log.MessageEvent{Markers: requestMarkers(in), Entries: in.Len()},
	})

	out := wire.NewDictionary()

	// Version gate runs first for every request, before any bookkeeping.
	remote, _ := in.String(wire.AppKeyLibraryVersion)
	if !d.remoteCompatible(remote) {
		out.AddInt32(wire.RequestTypeError, 0)
		out.AddInt32(wire.AppKeyErrorCode, int32(wire.ErrorCodeWrongVersion))
		d.logger.Debug("rejecting incompatible caller",
			"app_id", sender, "remote_version", remote, "host_version", d.host)
		d.send(sender, out, start)
		return
	}

	// Identity bookkeeping happens once per request, before routing.
	name, _ := in.String(wire.AppKeyAppName)
	if err := d.store.RecordSeen(sender, name); err != nil {
		d.logger.Error("recording caller identity", "app_id", sender, "err", err)
	}

	// Response header. Routed markers and provider failures replace the
	// error code in place.
	out.AddInt32(wire.RequestTypeError, 0)
	out.AddInt32(wire.AppKeyErrorCode, int32(wire.ErrorCodeSuccess))

	pending := newPendingResponse(out)
	substantive := false
	var hold time.Duration

	if in.Has(wire.RequestTypeGetData) {
		substantive = true
		if h := d.handleGetData(ctx, in, sender, pending); h > hold {
			hold = h
		}
	}
	if in.Has(wire.RequestTypeSetFeature) {
		substantive = true
		d.handleSetFeature(ctx, in, sender, pending)
	}
	if in.Has(wire.RequestTypeGetFeature) {
		substantive = true
		d.handleGetFeature(ctx, in, sender, pending)
	}
	if in.Has(wire.RequestTypeIsAvailable) {
		// Answered by the version-gated header alone.
		substantive = true
	}

	// A response that would carry nothing beyond the bare header is
	// protocol noise; suppress it.
	if !substantive {
		d.logger.Debug("suppressing vacuous response", "app_id", sender)
		return
	}

	if hold > d.maxHold {
		hold = d.maxHold
	}
	pending.scheduleFire(hold, func(sealed *wire.Dictionary) {
		d.send(sender, sealed, start)
	})
}

// remoteCompatible applies the version rule: equal major, remote minor not
// newer than the host's. Absent or unparseable versions are incompatible.
func (d *Dispatcher) remoteCompatible(remote string) bool {
	rv, err := version.Parse(remote)
	if err != nil {
		return false
	}
	return d.host.CompatibleWith(rv)
}

func (d *Dispatcher) handleGetData(ctx context.Context, in *wire.Dictionary, sender uuid.UUID, out *pendingResponse) time.Duration {
	out.AddInt32(wire.RequestTypeGetData, 0)

	dataType, ok := in.Int32(wire.AppKeyDataType)
	if !ok {
		d.logger.Debug("GetData without data type", "app_id", sender)
		markUnavailable(out)
		return 0
	}
	out.AddInt32(wire.AppKeyDataType, dataType)

	if d.data == nil {
		return 0
	}
	hold, err := d.data.AppendDataValue(ctx, uint32(dataType), out)
	if err != nil {
		d.logger.Warn("data provider failed",
			"app_id", sender, "data_type", wire.DataType(dataType), "err", err)
		markUnavailable(out)
		return 0
	}
	return hold
}

func (d *Dispatcher) handleSetFeature(ctx context.Context, in *wire.Dictionary, sender uuid.UUID, out *pendingResponse) {
	if !d.store.IsPermitted(sender) {
		// No echo on denial, only the replaced error code.
		out.AddInt32(wire.RequestTypeError, 0)
		out.AddInt32(wire.AppKeyErrorCode, int32(wire.ErrorCodeNoPermissions))

		name, _ := d.store.Name(sender)
		if d.notifier != nil {
			d.notifier.NotifyPermissionRequested(sender, name)
		}
		featureType, _ := in.Int32(wire.AppKeyFeatureType)
		d.plog.Log(log.Event{
			Timestamp:    time.Now(),
			AppID:        sender.String(),
			AppName:      name,
			Direction:    log.DirectionOut,
			Category:     log.CategoryNotification,
			Notification: &log.NotificationEvent{Feature: uint32(featureType)},
		})
		return
	}

	out.AddInt32(wire.RequestTypeSetFeature, 0)

	featureType, ok := in.Int32(wire.AppKeyFeatureType)
	if !ok {
		d.logger.Debug("SetFeature without feature type", "app_id", sender)
		markUnavailable(out)
		return
	}
	out.AddInt32(wire.AppKeyFeatureType, featureType)

	state, ok := in.Int32(wire.AppKeyFeatureState)
	if !ok {
		d.logger.Debug("SetFeature without feature state", "app_id", sender)
		markUnavailable(out)
		return
	}
	out.AddInt32(wire.AppKeyFeatureState, state)

	if d.features == nil {
		markUnavailable(out)
		return
	}
	if err := d.features.SetFeatureState(ctx, uint32(featureType), uint32(state)); err != nil {
		d.logger.Warn("feature mutation failed",
			"app_id", sender, "feature", wire.FeatureType(featureType), "err", err)
		markUnavailable(out)
	}
}

func (d *Dispatcher) handleGetFeature(ctx context.Context, in *wire.Dictionary, sender uuid.UUID, out *pendingResponse) {
	out.AddInt32(wire.RequestTypeGetFeature, 0)

	featureType, ok := in.Int32(wire.AppKeyFeatureType)
	if !ok {
		d.logger.Debug("GetFeature without feature type", "app_id", sender)
		markUnavailable(out)
		return
	}
	out.AddInt32(wire.AppKeyFeatureType, featureType)

	if d.features == nil {
		markUnavailable(out)
		return
	}
	state, err := d.features.FeatureState(ctx, uint32(featureType))
	if err != nil {
		d.logger.Warn("feature read failed",
			"app_id", sender, "feature", wire.FeatureType(featureType), "err", err)
		markUnavailable(out)
		return
	}
	out.AddInt32(wire.AppKeyFeatureState, int32(state))
}

func (d *Dispatcher) send(recipient uuid.UUID, out *wire.Dictionary, start time.Time) {
	if err := d.sender.Send(recipient, out); err != nil {
		d.logger.Error("sending response", "app_id", recipient, "err", err)
		d.plog.Log(log.Event{
			Timestamp: time.Now(),
			AppID:     recipient.String(),
			Direction: log.DirectionOut,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: err.Error()},
		})
		return
	}

	elapsed := time.Since(start)
	event := log.MessageEvent{
		Markers:        requestMarkers(out),
		Entries:        out.Len(),
		ProcessingTime: &elapsed,
	}
	if code, ok := out.Int32(wire.AppKeyErrorCode); ok {
		ec := wire.ErrorCode(code)
		event.ErrorCode = &ec
	}
	d.plog.Log(log.Event{
		Timestamp: time.Now(),
		AppID:     recipient.String(),
		Direction: log.DirectionOut,
		Category:  log.CategoryMessage,
		Message:   &event,
	})
}

// markUnavailable reports a host-side failure for one marker without
// aborting siblings in the same message.
func markUnavailable(out *pendingResponse) {
	out.AddInt32(wire.RequestTypeError, 0)
	out.AddInt32(wire.AppKeyErrorCode, int32(wire.ErrorCodeUnavailable))
}

// requestMarkers lists the request type keys present in d.
func requestMarkers(d *wire.Dictionary) []uint32 {
	var markers []uint32
	for _, key := range d.Keys() {
		if wire.IsRequestType(key) {
			markers = append(markers, key)
		}
	}
	return markers
}
