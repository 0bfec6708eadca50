package wire

// Request type markers. A single message may carry several of these at once;
// each present marker selects one operation for the same round trip.
const (
	RequestTypeGetData     uint32 = 24784
	RequestTypeSetFeature  uint32 = 24785
	RequestTypeGetFeature  uint32 = 24786
	RequestTypeError       uint32 = 24787
	RequestTypeIsAvailable uint32 = 24788
)

// App-level keys carrying operation parameters and metadata.
const (
	AppKeyFeatureType    uint32 = 47836
	AppKeyFeatureState   uint32 = 47837
	AppKeyDataType       uint32 = 47838
	AppKeyDataValue      uint32 = 47839
	AppKeyUsesDashAPI    uint32 = 47840
	AppKeyAppName        uint32 = 47841
	AppKeyErrorCode      uint32 = 47842
	AppKeyLibraryVersion uint32 = 47843
)

// DataType identifies a read-only phone status value.
type DataType uint32

const (
	DataTypeBatteryPercent           DataType = 678342
	DataTypeGSMOperatorName          DataType = 678343
	DataTypeGSMStrength              DataType = 678344
	DataTypeWifiNetworkName          DataType = 678345
	DataTypeStoragePercentUsed       DataType = 678346
	DataTypeStorageFreeGBString      DataType = 678347
	DataTypeUnreadSMSCount           DataType = 678348
	DataTypeNextCalendarEventOneLine DataType = 678349
	DataTypeNextCalendarEventTwoLine DataType = 678350
)

// String returns the data type name.
func (d DataType) String() string {
	switch d {
	case DataTypeBatteryPercent:
		return "BatteryPercent"
	case DataTypeGSMOperatorName:
		return "GSMOperatorName"
	case DataTypeGSMStrength:
		return "GSMStrength"
	case DataTypeWifiNetworkName:
		return "WifiNetworkName"
	case DataTypeStoragePercentUsed:
		return "StoragePercentUsed"
	case DataTypeStorageFreeGBString:
		return "StorageFreeGBString"
	case DataTypeUnreadSMSCount:
		return "UnreadSMSCount"
	case DataTypeNextCalendarEventOneLine:
		return "NextCalendarEventOneLine"
	case DataTypeNextCalendarEventTwoLine:
		return "NextCalendarEventTwoLine"
	default:
		return "Unknown"
	}
}

// FeatureType identifies a phone setting that can be read and, if the caller
// is permitted, written.
type FeatureType uint32

const (
	FeatureTypeWifi           FeatureType = 467822
	FeatureTypeBluetooth      FeatureType = 467823
	FeatureTypeRinger         FeatureType = 467824
	FeatureTypeAutoSync       FeatureType = 467825
	FeatureTypeHotSpot        FeatureType = 467826
	FeatureTypeAutoBrightness FeatureType = 467827
)

// String returns the feature type name.
func (f FeatureType) String() string {
	switch f {
	case FeatureTypeWifi:
		return "Wifi"
	case FeatureTypeBluetooth:
		return "Bluetooth"
	case FeatureTypeRinger:
		return "Ringer"
	case FeatureTypeAutoSync:
		return "AutoSync"
	case FeatureTypeHotSpot:
		return "HotSpot"
	case FeatureTypeAutoBrightness:
		return "AutoBrightness"
	default:
		return "Unknown"
	}
}

// FeatureState is the state of a feature. On/Off/Unknown apply to binary
// features; the Ringer* states apply to the ringer only. The dispatcher
// treats states as opaque and only echoes them.
type FeatureState int32

const (
	FeatureStateUnknown       FeatureState = 0
	FeatureStateOff           FeatureState = 1
	FeatureStateOn            FeatureState = 2
	FeatureStateRingerLoud    FeatureState = 3
	FeatureStateRingerVibrate FeatureState = 4
	FeatureStateRingerSilent  FeatureState = 5
)

// String returns the feature state name.
func (s FeatureState) String() string {
	switch s {
	case FeatureStateUnknown:
		return "Unknown"
	case FeatureStateOff:
		return "Off"
	case FeatureStateOn:
		return "On"
	case FeatureStateRingerLoud:
		return "RingerLoud"
	case FeatureStateRingerVibrate:
		return "RingerVibrate"
	case FeatureStateRingerSilent:
		return "RingerSilent"
	default:
		return "Unknown"
	}
}

// ErrorCode is the result code attached to error responses under
// AppKeyErrorCode.
type ErrorCode int32

const (
	// ErrorCodeSuccess indicates the request was processed.
	ErrorCodeSuccess ErrorCode = 0

	// ErrorCodeSendingFailed indicates a transport-level send failure.
	// Reserved for transport implementations; the dispatcher never emits it.
	ErrorCodeSendingFailed ErrorCode = 1

	// ErrorCodeUnavailable indicates a host-side provider failure or a
	// request the host could not honor.
	ErrorCodeUnavailable ErrorCode = 2

	// ErrorCodeNoPermissions indicates a mutating request from a caller the
	// user has not permitted.
	ErrorCodeNoPermissions ErrorCode = 3

	// ErrorCodeWrongVersion indicates an incompatible caller library version.
	ErrorCodeWrongVersion ErrorCode = 4
)

// String returns the error code name.
func (e ErrorCode) String() string {
	switch e {
	case ErrorCodeSuccess:
		return "Success"
	case ErrorCodeSendingFailed:
		return "SendingFailed"
	case ErrorCodeUnavailable:
		return "Unavailable"
	case ErrorCodeNoPermissions:
		return "NoPermissions"
	case ErrorCodeWrongVersion:
		return "WrongVersion"
	default:
		return "Unknown"
	}
}

// KeyName resolves a wire key to its symbolic name. The mapping is total for
// every key the protocol emits; unrecognized keys return "Unknown".
func KeyName(key uint32) string {
	switch key {
	case RequestTypeGetData:
		return "RequestTypeGetData"
	case RequestTypeSetFeature:
		return "RequestTypeSetFeature"
	case RequestTypeGetFeature:
		return "RequestTypeGetFeature"
	case RequestTypeError:
		return "RequestTypeError"
	case RequestTypeIsAvailable:
		return "RequestTypeIsAvailable"
	case AppKeyFeatureType:
		return "AppKeyFeatureType"
	case AppKeyFeatureState:
		return "AppKeyFeatureState"
	case AppKeyDataType:
		return "AppKeyDataType"
	case AppKeyDataValue:
		return "AppKeyDataValue"
	case AppKeyUsesDashAPI:
		return "AppKeyUsesDashAPI"
	case AppKeyAppName:
		return "AppKeyAppName"
	case AppKeyErrorCode:
		return "AppKeyErrorCode"
	case AppKeyLibraryVersion:
		return "AppKeyLibraryVersion"
	}
	if name := DataType(key).String(); name != "Unknown" {
		return "DataType" + name
	}
	if name := FeatureType(key).String(); name != "Unknown" {
		return "FeatureType" + name
	}
	return "Unknown"
}

// IsRequestType reports whether key is one of the request type markers.
func IsRequestType(key uint32) bool {
	return key >= RequestTypeGetData && key <= RequestTypeIsAvailable
}
