package memory

import (
	"github.com/gbvm/gbvm/pkg/log"
)

// Controller implements the cartridge's memory bank controller. On real
// hardware the cartridge intercepts stores into the ROM address range
// as bank-select commands, never as data; Write is invoked for every
// guest store below 0x8000 and dispatches on the chip family read from
// the header at load time.
type Controller struct {
	variant CartridgeType

	// mode is the MBC1 ROM/RAM banking mode bit.
	mode uint8
	// upperBits holds the latched high ROM bank bits, composed into the
	// bank number by the MBC1 family in ROM banking mode.
	upperBits uint8

	space *AddressSpace
	ram   *RAMBankStore
	log   log.Logger
}

func newController(variant CartridgeType, space *AddressSpace, ram *RAMBankStore, l log.Logger) *Controller {
	return &Controller{
		variant: variant,
		space:   space,
		ram:     ram,
		log:     l,
	}
}

// Write applies the bank-select command encoded by a guest store of
// value at address. Unrecognized chips are reported and the store
// ignored, so unknown cartridges still run with a static mapping.
func (c *Controller) Write(address uint16, value uint8) {
	switch c.variant {
	case ROM:
		// no controller, all writes ignored
	case MBC1, MBC1RAM, MBC1RAMBATT, MBC2, MBC2BATT:
		c.writeMBC1(address, value)
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		c.writeMBC3(address, value)
	case MBC5, MBC5RAM, MBC5RAMBATT:
		c.writeMBC5(address, value)
	default:
		c.log.Errorf("unknown cartridge type %s, cannot switch bank", c.variant)
	}
}

// writeMBC1 handles the MBC1 register file. MBC2 carts are dispatched
// here as well: their ROM banking behaves the same for the images we
// run, and their 512-nibble RAM is not modeled.
func (c *Controller) writeMBC1(address uint16, value uint8) {
	switch {
	case address >= 0x6000:
		c.mode = value & 0x01
	case address >= 0x4000:
		if c.mode != 0 {
			c.selectRAMBank(int(value))
		} else {
			c.upperBits = value << 5
		}
	case address >= 0x2000:
		bank := int(value & 0x1f)
		if c.mode == 0 {
			bank |= int(c.upperBits & 0x60)
		}
		// bank 0 is not reachable through this register; the hardware
		// substitutes bank 1
		if bank&0x1f == 0 {
			bank |= 1
		}
		c.selectROMBank(bank)
	}
}

func (c *Controller) writeMBC3(address uint16, value uint8) {
	switch {
	case address >= 0x6000:
		// RTC latch. The clock is a stub, so latching is acknowledged
		// and ignored.
	case address >= 0x4000:
		if value <= 4 {
			c.selectRAMBank(int(value))
		} else {
			// values above 4 expose the RTC register at 0xa000 in
			// place of RAM, until the next bank selection
			c.ram.ExposeRTC(c.space.ramWindow())
		}
	case address >= 0x2000:
		bank := int(value & 0x7f)
		if bank == 0 {
			bank = 1
		}
		c.selectROMBank(bank)
	}
}

func (c *Controller) writeMBC5(address uint16, value uint8) {
	switch {
	case address >= 0x6000:
	case address >= 0x4000:
		c.selectRAMBank(int(value))
	case address >= 0x2000:
		// full 8-bit bank index, bank 0 is legal here unlike MBC1
		c.selectROMBank(int(value))
	}
}

// selectROMBank remaps the switchable window. A failed remap is not
// fatal: the hardware has no way to signal it to the guest, so the
// previous bank stays visible and execution continues.
func (c *Controller) selectROMBank(bank int) {
	c.log.Debugf("change rom bank to %d", bank)
	if err := c.space.SelectROMBank(bank); err != nil {
		c.log.Errorf("rom bank switch failed: %v", err)
	}
}

func (c *Controller) selectRAMBank(bank int) {
	if err := c.ram.Select(bank, c.space.ramWindow()); err != nil {
		c.log.Errorf("ram bank switch failed: %v", err)
	}
}
