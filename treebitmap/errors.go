package treebitmap

import "errors"

var (
	// ErrInvalidAddr indicates the zero (invalid) netip.Addr.
	ErrInvalidAddr = errors.New("treebitmap: invalid address")

	// ErrInvalidMask indicates a mask length outside [0..32] for IPv4 or
	// [0..128] for IPv6.
	ErrInvalidMask = errors.New("treebitmap: invalid mask length")
)
