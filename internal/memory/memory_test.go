package memory

import (
	"math/bits"
	"os"
	"path/filepath"
	"testing"

	"github.com/gbvm/gbvm/pkg/log"
)

// writeTestROM writes a synthetic cartridge image to a temp file. Bank
// b's byte at offset o is b^o (mod 256), so any read identifies both
// its bank and its offset. banks must be a power of two of at least 2.
func writeTestROM(t *testing.T, banks int, cartType CartridgeType) (string, []byte) {
	t.Helper()

	rom := make([]byte, banks*romBankSize)
	for b := 0; b < banks; b++ {
		for o := 0; o < romBankSize; o++ {
			rom[b*romBankSize+o] = byte(b) ^ byte(o)
		}
	}

	copy(rom[0x0134:], "BANKTEST")
	rom[0x013C] = 0
	copy(rom[0x013F:], "GBVM")
	rom[0x0147] = byte(cartType)
	rom[0x0148] = byte(bits.Len(uint(banks)) - 2)
	rom[0x0149] = 0x03

	path := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatalf("writing test rom: %v", err)
	}
	return path, rom
}

// newTestMemory maps a synthetic image and tears the session down when
// the test finishes.
func newTestMemory(t *testing.T, banks int, cartType CartridgeType) (*Memory, []byte) {
	t.Helper()

	path, rom := writeTestROM(t, banks, cartType)
	m, err := New(path, WithLogger(log.NewNullLogger()))
	if err != nil {
		t.Fatalf("mapping test rom: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("teardown: %v", err)
		}
	})
	return m, rom
}

func TestNewParsesHeader(t *testing.T) {
	m, _ := newTestMemory(t, 4, MBC1RAMBATT)

	h := m.Header()
	if h.Title != "BANKTEST" {
		t.Errorf("title: got %q, want BANKTEST", h.Title)
	}
	if h.CartridgeType != MBC1RAMBATT {
		t.Errorf("cartridge type: got %s, want MBC1+RAM+BATT", h.CartridgeType)
	}
	if h.ROMSize != 4*romBankSize {
		t.Errorf("rom size: got %d, want %d", h.ROMSize, 4*romBankSize)
	}
}

func TestPlainStoreRoundTrip(t *testing.T) {
	m, _ := newTestMemory(t, 2, ROM)

	m.Write(0xc123, 0x7e)
	if got := m.Read(0xc123); got != 0x7e {
		t.Errorf("work ram read back: got %#02x, want 0x7e", got)
	}
}
