package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(prgBanks byte) *Bus {
	return NewBus(&Cartridge{
		PRG: make([]byte, int(prgBanks)*prgBankLen),
		CHR: make([]byte, chrBankLen),
	})
}

func TestBusRAMMirroring(t *testing.T) {
	bus := newTestBus(1)

	bus.Write(0x0001, 0x55)
	assert.EqualValues(t, 0x55, bus.Read(0x0001))
	assert.EqualValues(t, 0x55, bus.Read(0x0801))
	assert.EqualValues(t, 0x55, bus.Read(0x1001))
	assert.EqualValues(t, 0x55, bus.Read(0x1801))

	// Writes through a mirror land in the same cells.
	bus.Write(0x0802, 0x66)
	assert.EqualValues(t, 0x66, bus.Read(0x0002))
	assert.EqualValues(t, 0x66, bus.Read(0x1802))
}

func TestBusWordAccess(t *testing.T) {
	bus := newTestBus(1)

	bus.WriteWord(0x0010, 0x1234)
	assert.EqualValues(t, 0x34, bus.Read(0x0010), "low byte first")
	assert.EqualValues(t, 0x12, bus.Read(0x0011))
	assert.EqualValues(t, 0x1234, bus.ReadWord(0x0010))
}

func TestBusPRGMirroring(t *testing.T) {
	bus := newTestBus(1)
	bus.cart.PRG[0x0000] = 0xAA
	bus.cart.PRG[0x3FFF] = 0xBB

	// A single 16 KiB bank shows up in both halves of the window.
	assert.EqualValues(t, 0xAA, bus.Read(0x8000))
	assert.EqualValues(t, 0xAA, bus.Read(0xC000))
	assert.EqualValues(t, 0xBB, bus.Read(0xBFFF))
	assert.EqualValues(t, 0xBB, bus.Read(0xFFFF))
}

func TestBusPRGTwoBanks(t *testing.T) {
	bus := newTestBus(2)
	bus.cart.PRG[0x0000] = 0xAA
	bus.cart.PRG[0x4000] = 0xCC

	assert.EqualValues(t, 0xAA, bus.Read(0x8000))
	assert.EqualValues(t, 0xCC, bus.Read(0xC000), "32 KiB cartridges do not mirror")
}

func TestBusStubRegions(t *testing.T) {
	bus := newTestBus(1)

	for _, addr := range []uint16{0x2000, 0x3FFF, 0x4000, 0x401F, 0x4020, 0x6000, 0x7FFF} {
		assert.EqualValues(t, 0, bus.Read(addr), "read at $%04X", addr)

		// Writes are dropped without faulting.
		bus.Write(addr, 0xFF)
		assert.EqualValues(t, 0, bus.Read(addr), "read back at $%04X", addr)
	}
}

func TestBusROMWriteFaults(t *testing.T) {
	bus := newTestBus(1)

	for _, addr := range []uint16{0x8000, 0xC000, 0xFFFF} {
		require.Panics(t, func() { bus.Write(addr, 0x01) }, "write at $%04X", addr)
	}
}
