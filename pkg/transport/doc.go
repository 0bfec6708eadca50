// Package transport is the boundary between the phone-side bridge and the
// request dispatcher.
//
// A bridge implementation (Bluetooth serial, loopback, test harness) delivers
// raw inbound payloads as InboundMessage values. The Receiver filters out
// traffic that does not carry the protocol marker, acknowledges what passed
// the filter, and hands each message to the Handler on its own goroutine.
//
// Acknowledgement is transport-level only: it confirms receipt, not
// processing. The protocol-level answer travels back through the Sender the
// dispatcher was configured with.
package transport
