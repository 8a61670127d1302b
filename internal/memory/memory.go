// Package memory implements the memory-virtualization layer of the
// emulator: a flat 64KiB guest view over a banked cartridge image, the
// per-chip bank controllers that reconfigure it, the trapped I/O
// registers and the bridge that keeps the translation cache coherent
// with guest stores.
package memory

import (
	"github.com/gbvm/gbvm/internal/joypad"
	"github.com/gbvm/gbvm/pkg/log"
)

// Memory is a single emulation session's memory. It is exclusively
// owned by the goroutine driving guest execution; nothing here locks.
type Memory struct {
	space *AddressSpace
	ram   *RAMBankStore
	ctrl  *Controller

	header Header

	// Keys is the guest-visible joypad state, polled through 0xff00.
	Keys *joypad.State

	cache CodeCache
	log   log.Logger
}

// Opt configures a Memory during construction.
type Opt func(*Memory)

// WithLogger sets the session logger.
func WithLogger(l log.Logger) Opt {
	return func(m *Memory) {
		m.log = l
	}
}

// WithCodeCache attaches the execution collaborator's block table so
// stores into high memory can invalidate stale translated code.
func WithCodeCache(cache CodeCache) Opt {
	return func(m *Memory) {
		m.cache = cache
	}
}

// New maps the cartridge image at path into a fresh guest address
// space and selects the bank controller named by its header. An empty
// path creates an anonymous zeroed session with no controller.
func New(path string, opts ...Opt) (*Memory, error) {
	m := &Memory{
		Keys: &joypad.State{},
		log:  log.New(),
	}
	for _, opt := range opts {
		opt(m)
	}

	space, err := newAddressSpace(path)
	if err != nil {
		return nil, err
	}
	m.space = space
	m.ram = newRAMBankStore()

	if space.romMap != nil {
		m.header = parseHeader(space.romMap)
	}
	m.ctrl = newController(m.header.CartridgeType, space, m.ram, m.log)

	return m, nil
}

// Header returns the parsed cartridge header. It is zero for anonymous
// sessions.
func (m *Memory) Header() Header {
	return m.header
}

// Read returns the byte the guest currently sees at address. Reads have
// no side effects.
func (m *Memory) Read(address uint16) uint8 {
	return m.space.Read(address)
}

// Write is the single store entry point for the executing CPU. Stores
// below 0x8000 are bank-select commands against the controller; a
// handful of I/O registers have trapped side effects; stores into high
// memory invalidate any compiled code translated from it. Everything
// else is a plain store.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < upperBase:
		m.log.Debugf("write to rom @address %#04x, value is %#02x", address, value)
		m.ctrl.Write(address, value)
	case address == 0xff05:
		// any write to the timer counter resets it
		m.space.set(address, 0)
	case address == 0xff00:
		m.space.set(address, m.Keys.P1(value))
	case address == 0xff01:
		// serial transfer data is stored but never transferred
		m.space.set(address, value)
	case address == 0xff46:
		m.space.set(address, value)
		m.dmaToOAM(value)
	case address >= highMemBase:
		m.invalidateBlocks(address)
		m.space.set(address, value)
	default:
		m.space.set(address, value)
	}
}

// dmaToOAM copies the 160-byte page at source<<8 into the sprite
// attribute table. The copy completes before the store to the DMA
// register returns, modeling the transfer as instruction atomic.
func (m *Memory) dmaToOAM(source uint8) {
	src := uint16(source) << 8
	for i := uint16(0); i < 0xa0; i++ {
		m.space.set(oamBase+i, m.space.Read(src+i))
	}
}

// Close tears the session down: the RAM store is released and the
// mappings and image descriptor closed. Resources are released on every
// path, even when an unmap fails.
func (m *Memory) Close() error {
	m.ram = nil
	return m.space.Close()
}
