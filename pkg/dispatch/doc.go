// Package dispatch implements the Dash request/response state machine.
//
// The dispatcher receives one decoded request dictionary plus the caller
// identity, gates it on protocol version and per-application permission,
// routes every request marker present in the message, and assembles one
// response dictionary for the transport to deliver.
//
// Each request moves through: Received -> VersionChecked -> {Rejected |
// Authorized} -> Routed -> Responding -> Sent. No request spans more than
// one pass; the permission store is the only state shared across requests.
//
// A message may carry several request markers at once (GetData, SetFeature,
// GetFeature); each is evaluated independently and all results accumulate
// into the same response. Permission failures are terminal for their marker
// only, never for the whole message.
//
// Phone-side readers and writers sit behind the DataProvider and
// FeatureProvider interfaces. One data source (signal strength) resolves
// asynchronously; providers signal this by returning a hold duration, and
// the dispatcher defers response transmission by at most that bound. The
// response is sent when the hold elapses whether or not the value arrived.
package dispatch
