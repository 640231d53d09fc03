package arena

import "errors"

var (
	// ErrBadSlot indicates the sentinel or an out-of-range slot index.
	ErrBadSlot = errors.New("arena: bad slot index")

	// ErrBadWidth indicates a slot width outside of the allocator's range.
	ErrBadWidth = errors.New("arena: bad slot width")
)
