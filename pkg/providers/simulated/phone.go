package simulated

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dash-protocol/dash-go/pkg/dispatch"
	"github.com/dash-protocol/dash-go/pkg/wire"
)

// DefaultSignalHold is how long the dispatcher should wait for the
// asynchronous signal strength observer.
const DefaultSignalHold = 2 * time.Second

// CalendarEvent is an upcoming calendar entry.
type CalendarEvent struct {
	Title string
	Start time.Time
}

// OneLine renders the event as "15:04 Title".
func (e CalendarEvent) OneLine() string {
	return e.Start.Format("15:04") + " " + e.Title
}

// TwoLine renders the event as "Jan 02 15:04" with the title on a second
// line.
func (e CalendarEvent) TwoLine() string {
	return e.Start.Format("Jan 02 15:04") + "\n" + e.Title
}

// Snapshot is the phone state served to data requests.
type Snapshot struct {
	BatteryPercent    int32
	OperatorName      string
	SignalPercent     int32
	WifiSSID          string
	StorageFreeBytes  uint64
	StorageTotalBytes uint64
	UnreadSMS         int32
	NextEvent         *CalendarEvent
}

// Phone is an in-memory handset simulation implementing both the data and
// feature provider surfaces. Safe for concurrent use.
type Phone struct {
	mu       sync.Mutex
	snapshot Snapshot
	features map[uint32]uint32

	// signalDelay is how long the simulated observer takes to report.
	signalDelay time.Duration
	signalHold  time.Duration
}

// Option configures a Phone.
type Option func(*Phone)

// WithSignalDelay sets how long the simulated signal observer takes to
// deliver its value.
func WithSignalDelay(d time.Duration) Option {
	return func(p *Phone) { p.signalDelay = d }
}

// WithSignalHold sets the hold duration reported for signal requests.
func WithSignalHold(d time.Duration) Option {
	return func(p *Phone) { p.signalHold = d }
}

// NewPhone creates a Phone serving snapshot. All binary features start Off
// and the ringer starts Loud.
func NewPhone(snapshot Snapshot, opts ...Option) *Phone {
	p := &Phone{
		snapshot: snapshot,
		features: map[uint32]uint32{
			uint32(wire.FeatureTypeWifi):           uint32(wire.FeatureStateOff),
			uint32(wire.FeatureTypeBluetooth):      uint32(wire.FeatureStateOff),
			uint32(wire.FeatureTypeRinger):         uint32(wire.FeatureStateRingerLoud),
			uint32(wire.FeatureTypeAutoSync):       uint32(wire.FeatureStateOff),
			uint32(wire.FeatureTypeHotSpot):        uint32(wire.FeatureStateOff),
			uint32(wire.FeatureTypeAutoBrightness): uint32(wire.FeatureStateOff),
		},
		signalDelay: 10 * time.Millisecond,
		signalHold:  DefaultSignalHold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update applies fn to the snapshot under the lock.
func (p *Phone) Update(fn func(*Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.snapshot)
}

// AppendDataValue serves dataType from the snapshot. Unrecognized types
// append nothing. Signal strength is delivered asynchronously through the
// returned hold window.
func (p *Phone) AppendDataValue(_ context.Context, dataType uint32, out dispatch.Appender) (time.Duration, error) {
	p.mu.Lock()
	snap := p.snapshot
	p.mu.Unlock()

	switch wire.DataType(dataType) {
	case wire.DataTypeBatteryPercent:
		out.AddInt32(wire.AppKeyDataValue, snap.BatteryPercent)

	case wire.DataTypeGSMOperatorName:
		name := snap.OperatorName
		if name == "" {
			name = "Unknown"
		}
		out.AddString(wire.AppKeyDataValue, name)

	case wire.DataTypeGSMStrength:
		// The value arrives through an observer, not a direct read. The
		// response is held open for it.
		go func(percent int32, delay time.Duration) {
			time.Sleep(delay)
			out.AddInt32(wire.AppKeyDataValue, percent)
		}(snap.SignalPercent, p.signalDelay)
		return p.signalHold, nil

	case wire.DataTypeWifiNetworkName:
		out.AddString(wire.AppKeyDataValue, NormalizeSSID(snap.WifiSSID))

	case wire.DataTypeStorageFreeGBString:
		out.AddString(wire.AppKeyDataValue, FormatGigabytes(snap.StorageFreeBytes))

	case wire.DataTypeStoragePercentUsed:
		out.AddInt32(wire.AppKeyDataValue, storageUsedPercent(snap.StorageFreeBytes, snap.StorageTotalBytes))

	case wire.DataTypeUnreadSMSCount:
		out.AddInt32(wire.AppKeyDataValue, snap.UnreadSMS)

	case wire.DataTypeNextCalendarEventOneLine:
		if snap.NextEvent != nil {
			out.AddString(wire.AppKeyDataValue, snap.NextEvent.OneLine())
		} else {
			out.AddString(wire.AppKeyDataValue, "None")
		}

	case wire.DataTypeNextCalendarEventTwoLine:
		if snap.NextEvent != nil {
			out.AddString(wire.AppKeyDataValue, snap.NextEvent.TwoLine())
		} else {
			out.AddString(wire.AppKeyDataValue, "None")
		}
	}
	return 0, nil
}

// FeatureState returns the current state of featureType.
func (p *Phone) FeatureState(_ context.Context, featureType uint32) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.features[featureType]
	if !ok {
		return 0, fmt.Errorf("unknown feature %s", wire.FeatureType(featureType))
	}
	return state, nil
}

// SetFeatureState applies a state mutation. The ringer accepts its three
// mode states; every other feature accepts On and Off.
func (p *Phone) SetFeatureState(_ context.Context, featureType, state uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.features[featureType]; !ok {
		return fmt.Errorf("unknown feature %s", wire.FeatureType(featureType))
	}
	if !validState(wire.FeatureType(featureType), wire.FeatureState(state)) {
		return fmt.Errorf("state %s not valid for feature %s",
			wire.FeatureState(state), wire.FeatureType(featureType))
	}
	p.features[featureType] = state
	return nil
}

func validState(f wire.FeatureType, s wire.FeatureState) bool {
	if f == wire.FeatureTypeRinger {
		return s == wire.FeatureStateRingerLoud ||
			s == wire.FeatureStateRingerVibrate ||
			s == wire.FeatureStateRingerSilent
	}
	return s == wire.FeatureStateOn || s == wire.FeatureStateOff
}

// NormalizeSSID cleans up a platform-reported SSID: quotes are stripped and
// the "0x" and "<unknown ssid>" placeholders become "Disconnected" and
// "Unknown".
func NormalizeSSID(ssid string) string {
	ssid = strings.ReplaceAll(ssid, `"`, "")
	switch ssid {
	case "0x":
		return "Disconnected"
	case "<unknown ssid>":
		return "Unknown"
	}
	return ssid
}

// FormatGigabytes renders a byte count as "G.M GB" with a single rounded
// decimal place ("12.3 GB").
func FormatGigabytes(bytes uint64) string {
	gigs := float64(bytes) / (1 << 30)
	major := int(math.Floor(gigs))
	minor := int(math.Round((gigs-float64(major))*10)) % 10
	return fmt.Sprintf("%d.%d GB", major, minor)
}

func storageUsedPercent(free, total uint64) int32 {
	if total == 0 {
		return 0
	}
	freePercent := int32(math.Round(float64(free) / float64(total) * 100))
	return 100 - freePercent
}

var (
	_ dispatch.DataProvider    = (*Phone)(nil)
	_ dispatch.FeatureProvider = (*Phone)(nil)
)
