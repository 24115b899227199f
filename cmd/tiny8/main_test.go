package main

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/tiny8/cpu"
	"github.com/ezrec/tiny8/emulator"
)

func TestDefineList(t *testing.T) {
	assert := assert.New(t)

	dl := defineList{}
	assert.NoError(dl.Set("COUNT=5"))
	assert.NoError(dl.Set("DEBUG"))
	assert.Error(dl.Set("=5"))

	assert.Equal(defineList{"COUNT": "5", "DEBUG": "1"}, dl)
}

func TestWriteTrace(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator(0, 0)
	_, err := emu.Assemble(strings.NewReader("ldi r1, 3\nsts 0x10, r1\nsec\n"))
	require.NoError(t, err)
	_, err = emu.Run(cpu.DEFAULT_MAX_STEPS)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trace.jsonl")
	assert.NoError(writeTrace(path, emu.Cpu.Trace()))

	inf, err := os.Open(path)
	require.NoError(t, err)
	defer inf.Close()

	var recs []cpu.StepRecord
	scanner := bufio.NewScanner(inf)
	for scanner.Scan() {
		var rec cpu.StepRecord
		assert.NoError(json.Unmarshal(scanner.Bytes(), &rec))
		recs = append(recs, rec)
	}
	assert.NoError(scanner.Err())

	require.Equal(t, 3, len(recs))
	assert.Equal("STS 16, R1", recs[1].Text)
	assert.Equal(uint8(3), recs[1].Regs[1])
	assert.Equal(map[int]uint8{0x10: 3}, recs[2].Mem)
	assert.Equal(cpu.FLAG_C.Mask(), recs[2].Sreg)
	assert.Equal(3, recs[2].LineNo)
}

func TestProgressBar(t *testing.T) {
	assert := assert.New(t)

	out, err := os.CreateTemp(t.TempDir(), "progress")
	require.NoError(t, err)
	defer out.Close()

	// Not a terminal.
	bar := newProgressBar(out, 100)
	assert.Equal(PROGRESS_WIDTH, bar.width)

	bar.Update(50)
	bar.Done(100)

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)

	lines := strings.Split(string(data), "\r")
	require.Equal(t, 3, len(lines))
	assert.True(strings.HasSuffix(lines[1], "] 50/100"))
	assert.True(strings.HasPrefix(lines[2], "[####"))
	assert.True(strings.HasSuffix(lines[2], "] 100/100\n"))
	assert.Equal(PROGRESS_WIDTH-1, len(lines[1]))
}
