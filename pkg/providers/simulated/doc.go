// Package simulated provides synthetic data and feature providers for demos
// and tests.
//
// Phone is a stand-in for a real handset: it serves every data type from a
// mutable snapshot and keeps a feature state table in memory. The GSM signal
// strength path is deliberately asynchronous, mirroring how a real telephony
// stack delivers the value through an observer, so it exercises the
// dispatcher's deferred-send machinery.
//
// These providers can serve as templates for real platform integrations.
package simulated
