package memory

import "fmt"

// maxRAMBanks bounds the external RAM a cartridge can address: 16 banks
// of 8KiB, enough for the 128KiB MBC5 cartridges.
const maxRAMBanks = 16

// RAMBankStore holds every external RAM bank that is not currently
// swapped into the window at 0xa000. Unlike ROM, a bank switch here is
// a pair of synchronous copies: the window must stay writable by the
// guest, and mapping the same bank writable under two indices would
// break write isolation between banks.
type RAMBankStore struct {
	banks   []byte
	current int

	// rtcExposed is set while the RTC register, not real RAM, backs
	// 0xa000. The window contents are then not copied out on the next
	// switch.
	rtcExposed bool
}

func newRAMBankStore() *RAMBankStore {
	return &RAMBankStore{banks: make([]byte, maxRAMBanks*ramBankSize)}
}

// Bank returns the index of the bank currently swapped into the window.
func (r *RAMBankStore) Bank() int {
	return r.current
}

// Select swaps bank n into window, the live 8KiB at [0xa000,0xc000).
// Selecting the current bank is a no-op. The outgoing window is copied
// back to the store first, unless the RTC register was exposed there.
func (r *RAMBankStore) Select(n int, window []byte) error {
	if n == r.current {
		return nil
	}
	if n < 0 || n >= maxRAMBanks {
		return fmt.Errorf("ram bank %d out of range (max %d)", n, maxRAMBanks)
	}

	if !r.rtcExposed {
		copy(r.banks[r.current*ramBankSize:(r.current+1)*ramBankSize], window)
	}
	copy(window, r.banks[n*ramBankSize:(n+1)*ramBankSize])
	r.rtcExposed = false

	r.current = n
	return nil
}

// ExposeRTC switches the window to expose the RTC register in place of
// RAM until the next bank selection. The clock is a stub: it always
// reads 0 and latching is ignored.
func (r *RAMBankStore) ExposeRTC(window []byte) {
	window[0] = 0
	r.rtcExposed = true
}

// RTCExposed reports whether the RTC register currently backs 0xa000.
func (r *RAMBankStore) RTCExposed() bool {
	return r.rtcExposed
}
