// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"
)

const (
	DEFAULT_RAM_SIZE = 2048 // Default RAM size in bytes.
	DEFAULT_ROM_SIZE = 2048 // Default ROM size in bytes.
)

// Change is a single logged modification of a stored byte.
type Change struct {
	Addr int // Address of the modified byte.
	Old  int // Value before the change.
	New  int // Value after the change.
	Tag  int // Caller supplied tag, typically the CPU step counter.
}

// Memory holds the RAM and ROM regions.
type Memory struct {
	Verbose bool // Set to enable verbose logging.

	RamChanges []Change // Log of RAM writes that changed a byte.
	RomChanges []Change // Log of ROM loads that changed a byte.

	ram []uint8
	rom []uint8
}

// NewMemory creates a memory with the given region sizes.
// A size of zero selects the default.
func NewMemory(ramSize, romSize int) (mem *Memory) {
	if ramSize <= 0 {
		ramSize = DEFAULT_RAM_SIZE
	}
	if romSize <= 0 {
		romSize = DEFAULT_ROM_SIZE
	}

	mem = &Memory{
		ram: make([]uint8, ramSize),
		rom: make([]uint8, romSize),
	}

	return
}

// RamSize returns the size of RAM in bytes.
func (mem *Memory) RamSize() int {
	return len(mem.ram)
}

// RomSize returns the size of ROM in bytes.
func (mem *Memory) RomSize() int {
	return len(mem.rom)
}

// Defines returns the assembler equates describing this memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"RAMSIZE": fmt.Sprintf("%d", len(mem.ram)),
		"RAMEND":  fmt.Sprintf("%d", len(mem.ram)-1),
		"ROMSIZE": fmt.Sprintf("%d", len(mem.rom)),
	})
}

// ReadRam reads a byte of RAM.
func (mem *Memory) ReadRam(addr int) (value uint8, err error) {
	if addr < 0 || addr >= len(mem.ram) {
		err = ErrAddress{Space: "ram", Addr: addr}
		return
	}

	value = mem.ram[addr]
	return
}

// WriteRam stores the low byte of value into RAM.
// A change record tagged with tag is logged when the stored byte changes.
func (mem *Memory) WriteRam(addr int, value int, tag int) (err error) {
	if addr < 0 || addr >= len(mem.ram) {
		err = ErrAddress{Space: "ram", Addr: addr}
		return
	}

	old := mem.ram[addr]
	mem.ram[addr] = uint8(value & 0xff)
	if old != mem.ram[addr] {
		mem.RamChanges = append(mem.RamChanges, Change{
			Addr: addr,
			Old:  int(old),
			New:  int(mem.ram[addr]),
			Tag:  tag,
		})
		if mem.Verbose {
			log.Printf("memory: ram[%04x] %02x -> %02x", addr, old, mem.ram[addr])
		}
	}

	return
}

// LoadRom loads an image into ROM starting at address 0.
// Each value is masked to a byte; only changed bytes are logged.
func (mem *Memory) LoadRom(data []int) (err error) {
	if len(data) > len(mem.rom) {
		err = ErrImage{Size: len(data), Capacity: len(mem.rom)}
		return
	}

	for n, value := range data {
		old := mem.rom[n]
		mem.rom[n] = uint8(value & 0xff)
		if old != mem.rom[n] {
			mem.RomChanges = append(mem.RomChanges, Change{
				Addr: n,
				Old:  int(old),
				New:  int(mem.rom[n]),
			})
		}
	}

	if mem.Verbose {
		log.Printf("memory: rom loaded %d bytes", len(data))
	}

	return
}

// LoadRomImage loads a raw binary ROM image from a reader.
func (mem *Memory) LoadRomImage(input io.Reader) (err error) {
	reader := bufio.NewReader(input)

	var data []int
	for {
		var b byte
		b, err = reader.ReadByte()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			return
		}
		data = append(data, int(b))
		if len(data) > len(mem.rom) {
			err = ErrImage{Size: len(data), Capacity: len(mem.rom)}
			return
		}
	}

	err = mem.LoadRom(data)
	return
}

// ReadRom reads a byte of ROM.
func (mem *Memory) ReadRom(addr int) (value uint8, err error) {
	if addr < 0 || addr >= len(mem.rom) {
		err = ErrAddress{Space: "rom", Addr: addr}
		return
	}

	value = mem.rom[addr]
	return
}

// SnapshotRam returns an independent copy of RAM.
func (mem *Memory) SnapshotRam() []uint8 {
	return slices.Clone(mem.ram)
}

// SnapshotRom returns an independent copy of ROM.
func (mem *Memory) SnapshotRom() []uint8 {
	return slices.Clone(mem.rom)
}

// NonZeroRam returns a sparse copy of all non-zero RAM bytes.
func (mem *Memory) NonZeroRam() (cells map[int]uint8) {
	cells = map[int]uint8{}
	for addr, value := range mem.ram {
		if value != 0 {
			cells[addr] = value
		}
	}

	return
}
