// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR encoding configuration used for
// hyprwatch's binary formats (stream recordings).
//
// JSON is used where people or other programs read the output: the
// JSON Lines sink, the websocket broadcaster and the /state endpoint.
// CBOR is used for recordings, where compact self-describing items
// make a simple append-only sequence.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): the
// same value always produces the same bytes. Timestamps are encoded as
// tagged RFC 3339 strings with nanosecond precision.
//
// Types serialized only as CBOR use `cbor` struct tags. Types that are
// also served as JSON use `json` tags alone; fxamacker/cbor falls back
// to them when no `cbor` tag is present.
package codec
