package memory

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash"
)

// CartridgeType identifies the bank controller hardware on a cartridge,
// read from byte 0x0147 of the image.
type CartridgeType uint8

const (
	ROM               CartridgeType = 0x00
	MBC1              CartridgeType = 0x01
	MBC1RAM           CartridgeType = 0x02
	MBC1RAMBATT       CartridgeType = 0x03
	MBC2              CartridgeType = 0x05
	MBC2BATT          CartridgeType = 0x06
	MBC3TIMERBATT     CartridgeType = 0x0F
	MBC3TIMERRAMBATT  CartridgeType = 0x10
	MBC3              CartridgeType = 0x11
	MBC3RAM           CartridgeType = 0x12
	MBC3RAMBATT       CartridgeType = 0x13
	MBC5              CartridgeType = 0x19
	MBC5RAM           CartridgeType = 0x1A
	MBC5RAMBATT       CartridgeType = 0x1B
)

var cartridgeTypeNames = map[CartridgeType]string{
	ROM:              "ROM",
	MBC1:             "MBC1",
	MBC1RAM:          "MBC1+RAM",
	MBC1RAMBATT:      "MBC1+RAM+BATT",
	MBC2:             "MBC2",
	MBC2BATT:         "MBC2+BATT",
	MBC3TIMERBATT:    "MBC3+TIMER+BATT",
	MBC3TIMERRAMBATT: "MBC3+TIMER+RAM+BATT",
	MBC3:             "MBC3",
	MBC3RAM:          "MBC3+RAM",
	MBC3RAMBATT:      "MBC3+RAM+BATT",
	MBC5:             "MBC5",
	MBC5RAM:          "MBC5+RAM",
	MBC5RAMBATT:      "MBC5+RAM+BATT",
}

func (c CartridgeType) String() string {
	if name, ok := cartridgeTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%#02x)", uint8(c))
}

// Header holds the cartridge metadata located at 0x0100-0x014F of the
// image.
type Header struct {
	// 0x0134-0x0143 - Title of the game, null terminated
	Title string

	// 0x013F-0x0142 - ManufacturerCode of the game
	ManufacturerCode string

	// 0x0147 - the bank controller hardware on the cartridge
	CartridgeType CartridgeType

	// 0x0148 - ROM size in bytes, calculated by 32KiB << n
	ROMSize int

	// 0x0149 - external RAM size in bytes
	RAMSize int

	// 0x014D - 8-bit checksum of header bytes 0x0134-0x014C
	HeaderChecksum uint8

	// Digest is the xxhash of the whole image, identifying it in logs.
	Digest uint64
}

// parseHeader parses the cartridge header out of the image mapping.
func parseHeader(rom []byte) Header {
	h := Header{}

	title := rom[0x0134:0x0144]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	h.Title = string(title)

	code := rom[0x013F:0x0143]
	if i := bytes.IndexByte(code, 0); i >= 0 {
		code = code[:i]
	}
	h.ManufacturerCode = string(code)

	h.CartridgeType = CartridgeType(rom[0x0147])

	h.ROMSize = (32 * 1024) << rom[0x0148]

	if n := rom[0x0149]; n > 0 {
		h.RAMSize = (1 << (2*n - 1)) * 1024
	}

	h.HeaderChecksum = rom[0x014D]
	h.Digest = xxhash.Sum64(rom)

	return h
}

func (h Header) String() string {
	return fmt.Sprintf("%s | Type: %s | ROM Size: %dKiB | RAM Size: %dKiB",
		h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}

// Dump returns the human-readable header dump. Informational only.
func (h Header) Dump() string {
	return fmt.Sprintf(
		"+ Title: %s\n"+
			"+ Manufacturer: %s\n"+
			"+ Cartridge type: %s\n"+
			"+ ROM size: %d KiB\n"+
			"+ RAM size: %d KiB\n"+
			"+ Digest: %016x",
		h.Title, h.ManufacturerCode, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024, h.Digest)
}
