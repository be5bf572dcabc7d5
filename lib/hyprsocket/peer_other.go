// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package hyprsocket

import (
	"errors"
	"net"
)

func lookupPeer(net.Conn) (PeerInfo, error) {
	return PeerInfo{}, errors.New("peer credentials are only available on linux")
}
