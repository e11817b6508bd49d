// Package mpe tracks which MIDI channels are lent to sounding microtonal
// voices. Channel 1 (index 0) is the MPE master channel and is never handed
// out, leaving 15 member channels.
package mpe

import (
	"math/bits"
	"sync"
)

// Channels available to member voices.
const MemberChannels = 15

// Allocator hands out member channels lowest-first. Bit i of the mask is set
// while channel index i is in use.
type Allocator struct {
	mu   sync.Mutex
	mask uint16
}

// Alloc claims the lowest free member channel.
func (a *Allocator) Alloc() (uint8, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ch := uint8(1); ch < 16; ch++ {
		bit := uint16(1) << ch
		if a.mask&bit == 0 {
			a.mask |= bit
			return ch, true
		}
	}
	return 0, false
}

// Free releases ch. Freeing the master channel or a free channel does nothing.
func (a *Allocator) Free(ch uint8) {
	if ch == 0 || ch > 15 {
		return
	}
	a.mu.Lock()
	a.mask &^= uint16(1) << ch
	a.mu.Unlock()
}

func (a *Allocator) Mask() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mask
}

// InUse reports how many member channels are claimed.
func (a *Allocator) InUse() int {
	return bits.OnesCount16(a.Mask())
}
