package memory

import (
	"strings"
	"testing"

	"github.com/cespare/xxhash"
)

func TestParseHeader(t *testing.T) {
	rom := make([]byte, 4*romBankSize)
	copy(rom[0x0134:], "BANK")
	copy(rom[0x013F:], "GBVM")
	rom[0x0147] = byte(MBC3RAMBATT)
	rom[0x0148] = 0x01 // 64KiB
	rom[0x0149] = 0x02 // 8KiB
	rom[0x014D] = 0x66

	h := parseHeader(rom)

	if h.Title != "BANK" {
		t.Errorf("title: got %q, want BANK", h.Title)
	}
	if h.ManufacturerCode != "GBVM" {
		t.Errorf("manufacturer: got %q, want GBVM", h.ManufacturerCode)
	}
	if h.CartridgeType != MBC3RAMBATT {
		t.Errorf("cartridge type: got %s", h.CartridgeType)
	}
	if h.ROMSize != 64*1024 {
		t.Errorf("rom size: got %d, want %d", h.ROMSize, 64*1024)
	}
	if h.RAMSize != 8*1024 {
		t.Errorf("ram size: got %d, want %d", h.RAMSize, 8*1024)
	}
	if h.HeaderChecksum != 0x66 {
		t.Errorf("checksum: got %#02x, want 0x66", h.HeaderChecksum)
	}
	if h.Digest != xxhash.Sum64(rom) {
		t.Errorf("digest: got %016x", h.Digest)
	}
}

func TestParseHeaderNoRAM(t *testing.T) {
	rom := make([]byte, 2*romBankSize)
	h := parseHeader(rom)
	if h.RAMSize != 0 {
		t.Errorf("ram size: got %d, want 0", h.RAMSize)
	}
}

func TestCartridgeTypeString(t *testing.T) {
	if got := MBC1RAMBATT.String(); got != "MBC1+RAM+BATT" {
		t.Errorf("got %q", got)
	}
	if got := CartridgeType(0x42).String(); !strings.Contains(got, "UNKNOWN") {
		t.Errorf("got %q, want UNKNOWN", got)
	}
}

func TestHeaderDump(t *testing.T) {
	rom := make([]byte, 2*romBankSize)
	copy(rom[0x0134:], "BANK")
	rom[0x0147] = byte(MBC5)

	dump := parseHeader(rom).Dump()
	for _, want := range []string{"BANK", "MBC5", "ROM size: 32 KiB"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}
