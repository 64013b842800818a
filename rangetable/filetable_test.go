package rangetable_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/smallrange"
	"github.com/iotaledger/hive.go/smallrange/rangetable"
)

func TestFileTable(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint32](fileName)
	require.NoError(t, err)
	require.Equal(t, rangetable.FileTableIndexAuto, fileTable.StartIndex())

	// the first write pins the start index of the table
	require.NoError(t, fileTable.Set(10, smallrange.MustNew[uint32](100, 200)))
	require.Equal(t, uint64(10), fileTable.StartIndex())

	require.NoError(t, fileTable.Set(12, smallrange.MustNew[uint32](300, 301)))

	r, err := fileTable.Get(10)
	require.NoError(t, err)
	require.Equal(t, smallrange.MustNew[uint32](100, 200), r)

	// the slot in between was never written and reads back as absent
	r, err = fileTable.Get(11)
	require.NoError(t, err)
	require.True(t, r.IsAbsent())

	// indexes before the start or past the extent are out of bounds
	_, err = fileTable.Get(9)
	require.ErrorIs(t, err, rangetable.ErrIndexOutOfBounds)
	_, err = fileTable.Get(13)
	require.ErrorIs(t, err, rangetable.ErrIndexOutOfBounds)

	err = fileTable.Set(9, smallrange.MustNew[uint32](1, 2))
	require.ErrorIs(t, err, rangetable.ErrIndexOutOfBounds)

	slotCount, err := fileTable.Slots()
	require.NoError(t, err)
	require.Equal(t, uint64(3), slotCount)

	require.NoError(t, fileTable.Close())

	// reopening restores the start index and the stored ranges
	reopenedTable, err := rangetable.NewFileTable[uint32](fileName)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopenedTable.Close()) }()

	require.Equal(t, uint64(10), reopenedTable.StartIndex())

	r, err = reopenedTable.Get(10)
	require.NoError(t, err)
	require.Equal(t, smallrange.MustNew[uint32](100, 200), r)

	r, err = reopenedTable.Get(12)
	require.NoError(t, err)
	require.Equal(t, smallrange.MustNew[uint32](300, 301), r)

	r, err = reopenedTable.Get(11)
	require.NoError(t, err)
	require.True(t, r.IsAbsent())
}

func TestFileTableAbsent(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint64](fileName)
	require.NoError(t, err)
	defer func() { require.NoError(t, fileTable.Close()) }()

	require.NoError(t, fileTable.Set(0, smallrange.MustNew[uint64](5, 6)))

	// storing the zero value zeroes the slot on disk
	require.NoError(t, fileTable.Set(0, smallrange.SmallRange[uint64]{}))

	r, err := fileTable.Get(0)
	require.NoError(t, err)
	require.True(t, r.IsAbsent())

	// the empty range is a present value and survives the disk round trip as one
	require.NoError(t, fileTable.Set(0, smallrange.Empty[uint64]()))

	r, err = fileTable.Get(0)
	require.NoError(t, err)
	require.False(t, r.IsAbsent())
	require.True(t, r.IsEmpty())
}

func TestFileTableWithStartIndex(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint64](fileName, rangetable.WithStartIndex[uint64](100))
	require.NoError(t, err)
	require.Equal(t, uint64(100), fileTable.StartIndex())

	err = fileTable.Set(99, smallrange.MustNew[uint64](1, 2))
	require.ErrorIs(t, err, rangetable.ErrIndexOutOfBounds)

	require.NoError(t, fileTable.Set(102, smallrange.MustNew[uint64](40, 50)))

	r, err := fileTable.Get(100)
	require.NoError(t, err)
	require.True(t, r.IsAbsent())

	slotCount, err := fileTable.Slots()
	require.NoError(t, err)
	require.Equal(t, uint64(3), slotCount)

	require.NoError(t, fileTable.Close())

	// a conflicting preset start index is rejected when reopening
	_, err = rangetable.NewFileTable[uint64](fileName, rangetable.WithStartIndex[uint64](200))
	require.ErrorContains(t, err, "does not match")

	reopenedTable, err := rangetable.NewFileTable[uint64](fileName)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopenedTable.Close()) }()

	require.Equal(t, uint64(100), reopenedTable.StartIndex())

	r, err = reopenedTable.Get(102)
	require.NoError(t, err)
	require.Equal(t, smallrange.MustNew[uint64](40, 50), r)
}

func TestFileTableSlotWidthMismatch(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint32](fileName)
	require.NoError(t, err)
	require.NoError(t, fileTable.Set(0, smallrange.MustNew[uint32](1, 2)))
	require.NoError(t, fileTable.Close())

	_, err = rangetable.NewFileTable[uint64](fileName)
	require.ErrorIs(t, err, rangetable.ErrSlotWidthMismatch)
}

func TestFileTableCorruptSlot(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint16](fileName)
	require.NoError(t, err)
	require.NoError(t, fileTable.Set(0, smallrange.MustNew[uint16](1, 2)))
	require.NoError(t, fileTable.Close())

	// overwrite the first slot behind the header with a pattern whose low half carries no bias
	file, err := os.OpenFile(fileName, os.O_RDWR, 0o666)
	require.NoError(t, err)
	_, err = file.WriteAt([]byte{0x00, 0x01}, 16)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	reopenedTable, err := rangetable.NewFileTable[uint16](fileName)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopenedTable.Close()) }()

	_, err = reopenedTable.Get(0)
	require.ErrorIs(t, err, smallrange.ErrParseBytesFailed)
	require.NotErrorIs(t, err, rangetable.ErrIndexOutOfBounds)
}

func TestFileTableClosedHandle(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint32](fileName)
	require.NoError(t, err)
	require.NoError(t, fileTable.Set(0, smallrange.MustNew[uint32](1, 2)))
	require.NoError(t, fileTable.Close())

	// reads on a closed handle report the I/O failure instead of an out of bounds index
	_, err = fileTable.Get(0)
	require.Error(t, err)
	require.NotErrorIs(t, err, rangetable.ErrIndexOutOfBounds)
}

func TestFileTableEmptyReopen(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ranges.bin")

	fileTable, err := rangetable.NewFileTable[uint16](fileName)
	require.NoError(t, err)
	require.NoError(t, fileTable.Close())

	// a table that never saw a write has no header yet and opens like a fresh one
	reopenedTable, err := rangetable.NewFileTable[uint16](fileName)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopenedTable.Close()) }()

	require.Equal(t, rangetable.FileTableIndexAuto, reopenedTable.StartIndex())

	slotCount, err := reopenedTable.Slots()
	require.NoError(t, err)
	require.Equal(t, uint64(0), slotCount)

	_, err = reopenedTable.Get(0)
	require.ErrorIs(t, err, rangetable.ErrIndexOutOfBounds)
}
