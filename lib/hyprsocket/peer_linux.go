// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package hyprsocket

import (
	"fmt"
	"net"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

// lookupPeer reads SO_PEERCRED from the socket and resolves the peer
// PID to a process name. A missing name is not an error.
func lookupPeer(conn net.Conn) (PeerInfo, error) {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return PeerInfo{}, fmt.Errorf("not a unix socket: %T", conn)
	}
	raw, err := unixConn.SyscallConn()
	if err != nil {
		return PeerInfo{}, fmt.Errorf("raw connection: %w", err)
	}

	var credentials *unix.Ucred
	var credentialsErr error
	if err := raw.Control(func(fd uintptr) {
		credentials, credentialsErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return PeerInfo{}, fmt.Errorf("socket control: %w", err)
	}
	if credentialsErr != nil {
		return PeerInfo{}, fmt.Errorf("SO_PEERCRED: %w", credentialsErr)
	}

	info := PeerInfo{PID: credentials.Pid, UID: credentials.Uid, GID: credentials.Gid}
	if peer, err := process.NewProcess(credentials.Pid); err == nil {
		if name, err := peer.Name(); err == nil {
			info.Name = name
		}
	}
	return info, nil
}
