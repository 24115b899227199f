package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0, 0)
	assert.Equal(DEFAULT_RAM_SIZE, mem.RamSize())
	assert.Equal(DEFAULT_ROM_SIZE, mem.RomSize())

	mem = NewMemory(64, 32)
	assert.Equal(64, mem.RamSize())
	assert.Equal(32, mem.RomSize())
}

func TestMemory_Ram(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16, 16)

	table := [](struct {
		addr  int
		value int
		want  uint8
	}){
		{0, 0x12, 0x12},
		{15, 0x1ff, 0xff},
		{3, -1, 0xff},
		{4, 0x100, 0x00},
	}

	for _, entry := range table {
		err := mem.WriteRam(entry.addr, entry.value, 7)
		assert.NoError(err)
		value, err := mem.ReadRam(entry.addr)
		assert.NoError(err)
		assert.Equal(entry.want, value, "%+v", entry)
	}

	// Writing 0x100 to a zero cell stores 0 and logs nothing.
	assert.Equal([]Change{
		{Addr: 0, Old: 0, New: 0x12, Tag: 7},
		{Addr: 15, Old: 0, New: 0xff, Tag: 7},
		{Addr: 3, Old: 0, New: 0xff, Tag: 7},
	}, mem.RamChanges)
}

func TestMemory_RamRepeatedWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8, 8)
	assert.NoError(mem.WriteRam(1, 5, 0))
	assert.NoError(mem.WriteRam(1, 5, 1))
	assert.NoError(mem.WriteRam(1, 6, 2))

	assert.Equal(2, len(mem.RamChanges))
	assert.Equal(Change{Addr: 1, Old: 5, New: 6, Tag: 2}, mem.RamChanges[1])
}

func TestMemory_RamOutOfRange(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8, 8)

	for _, addr := range []int{-1, 8, 1000} {
		_, err := mem.ReadRam(addr)
		assert.ErrorIs(err, ErrOutOfRange)
		var addrErr ErrAddress
		assert.True(errors.As(err, &addrErr))
		assert.Equal(addr, addrErr.Addr)
		assert.Equal("ram", addrErr.Space)

		err = mem.WriteRam(addr, 1, 0)
		assert.ErrorIs(err, ErrOutOfRange)
	}

	assert.Empty(mem.RamChanges)
}

func TestMemory_Rom(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8, 4)

	err := mem.LoadRom([]int{0x01, 0x1ff, 0, 0x42})
	assert.NoError(err)

	want := []uint8{0x01, 0xff, 0x00, 0x42}
	for addr, value := range want {
		got, err := mem.ReadRom(addr)
		assert.NoError(err)
		assert.Equal(value, got)
	}

	assert.Equal([]Change{
		{Addr: 0, Old: 0, New: 0x01},
		{Addr: 1, Old: 0, New: 0xff},
		{Addr: 3, Old: 0, New: 0x42},
	}, mem.RomChanges)

	_, err = mem.ReadRom(4)
	assert.ErrorIs(err, ErrOutOfRange)
	_, err = mem.ReadRom(-1)
	assert.ErrorIs(err, ErrOutOfRange)
}

func TestMemory_RomTooLarge(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8, 4)

	err := mem.LoadRom([]int{1, 2, 3, 4, 5})
	assert.ErrorIs(err, ErrImageTooLarge)
	assert.Empty(mem.RomChanges)
	assert.Equal([]uint8{0, 0, 0, 0}, mem.SnapshotRom())
}

func TestMemory_RomImage(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8, 4)

	err := mem.LoadRomImage(bytes.NewReader([]byte{0xde, 0xad}))
	assert.NoError(err)
	assert.Equal([]uint8{0xde, 0xad, 0, 0}, mem.SnapshotRom())

	err = mem.LoadRomImage(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}))
	assert.ErrorIs(err, ErrImageTooLarge)
}

func TestMemory_Snapshot(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4, 4)
	assert.NoError(mem.WriteRam(2, 0x33, 0))
	assert.NoError(mem.LoadRom([]int{9}))

	ram := mem.SnapshotRam()
	rom := mem.SnapshotRom()
	assert.Equal([]uint8{0, 0, 0x33, 0}, ram)

	ram[2] = 0
	rom[0] = 0

	value, _ := mem.ReadRam(2)
	assert.Equal(uint8(0x33), value)
	value, _ = mem.ReadRom(0)
	assert.Equal(uint8(9), value)

	assert.Equal(map[int]uint8{2: 0x33}, mem.NonZeroRam())
}

func TestMemory_Defines(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(256, 128)

	defines := map[string]string{}
	for key, value := range mem.Defines() {
		defines[key] = value
	}

	assert.Equal("256", defines["RAMSIZE"])
	assert.Equal("255", defines["RAMEND"])
	assert.Equal("128", defines["ROMSIZE"])
}
