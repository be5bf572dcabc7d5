// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

// PeerInfo identifies the process at the other end of a unix socket.
type PeerInfo struct {
	PID  int32
	UID  uint32
	GID  uint32
	Name string
}
