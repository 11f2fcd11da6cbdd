package timer

import (
	"testing"

	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDIVResetsRegardlessOfValue(t *testing.T) {
	tm := New(interrupts.NewController())
	tm.Tick(1000)
	require.NotZero(t, tm.ReadDIV())

	tm.WriteDIV(0x42)
	require.Zero(t, tm.ReadDIV())
}

func TestTIMAOverflowReloadsAndInterrupts(t *testing.T) {
	irq := interrupts.NewController()
	tm := New(irq)
	tm.WriteTAC(0x05) // enabled, 262144 Hz -> period 16
	tm.WriteTMA(0x10)
	tm.WriteTIMA(0xFF)

	tm.Tick(16)

	assert.Equal(t, uint8(0x10), tm.ReadTIMA())
	assert.NotZero(t, irq.Flag&(1<<interrupts.Timer))
}

func TestTimerDisabledDoesNotIncrementTIMA(t *testing.T) {
	tm := New(interrupts.NewController())
	tm.WriteTAC(0x01) // frequency bits set, enable bit clear
	tm.Tick(10000)
	assert.Zero(t, tm.ReadTIMA())
}
