package memory

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	// romBankSize is the size of a single ROM bank (16KiB).
	romBankSize = 0x4000
	// ramBankSize is the size of a single external RAM bank (8KiB).
	ramBankSize = 0x2000

	// upperBase is the start of the emulator owned read-write half of
	// the address space: VRAM, work RAM, I/O registers and high memory.
	upperBase = 0x8000
	// ramWindowBase is the start of the external RAM window.
	ramWindowBase = 0xa000
	// oamBase is the start of the sprite attribute table.
	oamBase = 0xfe00
	// highMemBase is the start of the directly executed high memory
	// region watched by the code cache bridge.
	highMemBase = 0xff80
)

var (
	// ErrMapping reports a failure to establish the initial guest view.
	// No partial session is left behind.
	ErrMapping = errors.New("memory: mapping failed")

	// ErrRemap reports a failed bank switch. The previously mapped bank
	// stays visible; the guest has no way to observe the failure.
	ErrRemap = errors.New("memory: remap failed")
)

// AddressSpace owns the flat 64KiB view presented to the guest. The
// lower 32KiB is backed by a read-only memory mapping of the cartridge
// image: a fixed window always showing bank 0 and a switchable window
// showing the currently selected bank. Switching banks re-points the
// switchable window inside the image mapping, so a switch is O(1) and
// never copies. The upper 32KiB is an anonymous read-write mapping.
type AddressSpace struct {
	romMap  []byte // mapping of the whole image, nil in anonymous sessions
	anonMap []byte // anonymous mapping: the upper half, or all 64KiB when anonymous

	bank0      []byte // [0x0000,0x4000), always ROM bank 0
	switchable []byte // [0x4000,0x8000), the selected ROM bank
	upper      []byte // [0x8000,0x10000)

	f       *os.File
	romBank int
}

// newAddressSpace establishes the guest view. An empty path creates a
// private zeroed 64KiB region with no backing image, used for synthetic
// sessions. Otherwise the image at path is opened read-only and mapped,
// with the switchable window pre-loaded with bank 1. On failure every
// resource acquired so far is released before the error is returned.
func newAddressSpace(path string) (*AddressSpace, error) {
	a := &AddressSpace{}

	if path == "" {
		mem, err := unix.Mmap(-1, 0, 0x10000, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
		if err != nil {
			return nil, fmt.Errorf("%w: anonymous region: %v", ErrMapping, err)
		}
		a.anonMap = mem
		a.bank0 = mem[:romBankSize]
		a.switchable = mem[romBankSize : 2*romBankSize]
		a.upper = mem[upperBase:]
		a.romBank = 1
		return a, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMapping, path, err)
	}

	fi, err := f.Stat()
	if err == nil && fi.Size() < 2*romBankSize {
		err = fmt.Errorf("image is %d bytes, need at least %d", fi.Size(), 2*romBankSize)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrMapping, path, err)
	}

	rom, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: map %s: %v", ErrMapping, path, err)
	}

	anon, err := unix.Mmap(-1, 0, upperBase, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		_ = unix.Munmap(rom)
		f.Close()
		return nil, fmt.Errorf("%w: emulator region: %v", ErrMapping, err)
	}

	a.f = f
	a.romMap = rom
	a.anonMap = anon
	a.bank0 = rom[:romBankSize]
	a.switchable = rom[romBankSize : 2*romBankSize]
	a.upper = anon
	a.romBank = 1
	return a, nil
}

// Banks returns the number of 16KiB banks in the backing image.
func (a *AddressSpace) Banks() int {
	return len(a.romMap) / romBankSize
}

// ROMBank returns the bank currently visible in the switchable window.
func (a *AddressSpace) ROMBank() int {
	return a.romBank
}

// SelectROMBank points the switchable window at bank n of the image.
// Selecting the current bank is a no-op. A bank outside the image, or
// any selection in an anonymous session, fails with ErrRemap and leaves
// the previous bank visible.
func (a *AddressSpace) SelectROMBank(n int) error {
	if n == a.romBank {
		return nil
	}
	if a.romMap == nil {
		return fmt.Errorf("%w: no image backs the switchable window", ErrRemap)
	}
	if n < 0 || (n+1)*romBankSize > len(a.romMap) {
		return fmt.Errorf("%w: bank %d out of range (image has %d banks)", ErrRemap, n, a.Banks())
	}

	a.switchable = a.romMap[n*romBankSize : (n+1)*romBankSize]
	a.romBank = n
	return nil
}

// Read returns the byte the guest currently sees at address.
func (a *AddressSpace) Read(address uint16) uint8 {
	switch {
	case address < romBankSize:
		return a.bank0[address]
	case address < upperBase:
		return a.switchable[address&(romBankSize-1)]
	default:
		return a.upper[address&(upperBase-1)]
	}
}

// set stores value into the emulator owned half of the address space.
// Callers route stores below 0x8000 through the bank controller.
func (a *AddressSpace) set(address uint16, value uint8) {
	a.upper[address&(upperBase-1)] = value
}

// ramWindow returns the live external RAM window at [0xa000,0xc000).
func (a *AddressSpace) ramWindow() []byte {
	return a.upper[ramWindowBase-upperBase : ramWindowBase-upperBase+ramBankSize]
}

// Close releases the mappings and the image file descriptor. Both
// unmaps are attempted even if the first fails, and the descriptor is
// closed regardless; only the first mapping failure is reported.
func (a *AddressSpace) Close() error {
	var err error
	if a.romMap != nil {
		if e := unix.Munmap(a.romMap); e != nil {
			err = fmt.Errorf("unmap image: %w", e)
		}
		a.romMap = nil
	}
	if a.anonMap != nil {
		if e := unix.Munmap(a.anonMap); e != nil && err == nil {
			err = fmt.Errorf("unmap emulator region: %w", e)
		}
		a.anonMap = nil
	}
	if a.f != nil {
		closeErr := a.f.Close()
		a.f = nil
		if err == nil && closeErr != nil {
			err = closeErr
		}
	}
	a.bank0, a.switchable, a.upper = nil, nil, nil
	return err
}
