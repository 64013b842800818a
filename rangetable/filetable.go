package rangetable

import (
	"io"
	"os"
	"sync"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/smallrange"
)

// FileTableIndexAuto pins the start index of a FileTable to the first index that is written.
const FileTableIndexAuto = ^uint64(0)

// headerLength is the size of the file header, one uint64 word for the slot width and one for the start index.
const headerLength = 16

// FileTable is a file-backed table of optional SmallRanges with fixed-width slots. Like the in-memory Table it stores
// nothing but the packed values: a slot that was never written reads back as the absent state, and writing the absent
// state zeroes the slot. A table of N slots occupies exactly headerLength + N * slot width bytes on disk.
type FileTable[T smallrange.Storage] struct {
	fileHandle   *os.File
	startIndex   uint64
	slotWidth    uint64
	headerExists bool

	mutex sync.RWMutex
}

// NewFileTable opens the file-backed table stored in fileName, creating the file if it does not exist.
func NewFileTable[T smallrange.Storage](fileName string, opts ...options.Option[FileTable[T]]) (fileTable *FileTable[T], err error) {
	return options.Apply(&FileTable[T]{
		startIndex: FileTableIndexAuto,
		slotWidth:  uint64(smallrange.Bits[T]() / 8),
	}, opts, func(f *FileTable[T]) {
		if f.fileHandle, err = os.OpenFile(fileName, os.O_RDWR|os.O_CREATE, 0o666); err != nil {
			err = ierrors.Wrap(err, "failed to open file")

			return
		}

		if err = f.readHeader(); err != nil {
			err = ierrors.Wrap(err, "failed to read header")

			return
		}
	}), err
}

// WithStartIndex presets the index of the first slot instead of pinning it to the first written index.
func WithStartIndex[T smallrange.Storage](startIndex uint64) options.Option[FileTable[T]] {
	return func(f *FileTable[T]) {
		f.startIndex = startIndex
	}
}

// StartIndex returns the index of the first slot of the table.
func (f *FileTable[T]) StartIndex() uint64 {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.startIndex
}

// Set stores the given SmallRange at index. The first Set pins the start index of the table unless one was
// preconfigured with WithStartIndex; indexes before the start index are rejected. Storing the absent state zeroes
// the slot.
func (f *FileTable[T]) Set(index uint64, r smallrange.SmallRange[T]) (err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.startIndex == FileTableIndexAuto {
		f.startIndex = index
	}

	if index < f.startIndex {
		return ierrors.Wrapf(ErrIndexOutOfBounds, "index %d is before the table start %d", index, f.startIndex)
	}

	if !f.headerExists {
		if err = f.writeHeader(); err != nil {
			return ierrors.Wrap(err, "failed to write header")
		}
	}

	relativeIndex := index - f.startIndex
	if _, err = f.fileHandle.WriteAt(r.Bytes(), int64(headerLength+relativeIndex*f.slotWidth)); err != nil {
		return ierrors.Wrap(err, "failed to write slot")
	}

	return f.fileHandle.Sync()
}

// Get reads the SmallRange stored at index. A slot inside the extent that was never written reads back as the absent
// state, while reading before the start index or past the extent fails with ErrIndexOutOfBounds.
func (f *FileTable[T]) Get(index uint64) (r smallrange.SmallRange[T], err error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if f.startIndex == FileTableIndexAuto || index < f.startIndex {
		return r, ierrors.Wrapf(ErrIndexOutOfBounds, "index %d is before the table start", index)
	}

	relativeIndex := index - f.startIndex

	slotBytes := make([]byte, f.slotWidth)
	if _, err = f.fileHandle.ReadAt(slotBytes, int64(headerLength+relativeIndex*f.slotWidth)); err != nil {
		if ierrors.Is(err, io.EOF) || ierrors.Is(err, io.ErrUnexpectedEOF) {
			return r, ierrors.Wrapf(ErrIndexOutOfBounds, "index %d is past the table extent", index)
		}

		return r, ierrors.Wrapf(err, "failed to read slot %d", index)
	}

	if r, _, err = smallrange.FromBytes[T](slotBytes); err != nil {
		return r, ierrors.Wrap(err, "failed to parse slot")
	}

	return r, nil
}

// Slots returns the number of slots the table currently extends over.
func (f *FileTable[T]) Slots() (slotCount uint64, err error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	fileInfo, err := f.fileHandle.Stat()
	if err != nil {
		return 0, ierrors.Wrap(err, "failed to stat file")
	}

	if fileSize := uint64(fileInfo.Size()); fileSize > headerLength {
		slotCount = (fileSize - headerLength) / f.slotWidth
	}

	return slotCount, nil
}

// Close closes the underlying file handle.
func (f *FileTable[T]) Close() error {
	return f.fileHandle.Close()
}

// readHeader validates the header of an existing file against the storage type and adopts its start index. A still
// empty file leaves the header to be written by the first Set.
func (f *FileTable[T]) readHeader() (err error) {
	headerBytes := make([]byte, headerLength)
	if _, err = f.fileHandle.ReadAt(headerBytes, 0); err != nil {
		if ierrors.Is(err, io.EOF) {
			return nil
		}

		return ierrors.Wrap(err, "failed to read header bytes")
	}

	headerReader := stream.NewByteReader(headerBytes)
	slotWidth, err := stream.Read[uint64](headerReader)
	if err != nil {
		return ierrors.Wrap(err, "failed to read slot width")
	}
	startIndex, err := stream.Read[uint64](headerReader)
	if err != nil {
		return ierrors.Wrap(err, "failed to read start index")
	}

	if slotWidth != f.slotWidth {
		return ierrors.Wrapf(ErrSlotWidthMismatch, "file stores %d byte slots but the storage type needs %d", slotWidth, f.slotWidth)
	}

	if f.startIndex != FileTableIndexAuto && f.startIndex != startIndex {
		return ierrors.Errorf("start index %d does not match existing start index %d in file", f.startIndex, startIndex)
	}

	f.startIndex = startIndex
	f.headerExists = true

	return nil
}

// writeHeader persists the slot width and start index at the beginning of the file.
func (f *FileTable[T]) writeHeader() (err error) {
	headerBuffer := stream.NewByteBuffer(headerLength)
	if err = stream.Write(headerBuffer, f.slotWidth); err != nil {
		return ierrors.Wrap(err, "failed to write slot width")
	}
	if err = stream.Write(headerBuffer, f.startIndex); err != nil {
		return ierrors.Wrap(err, "failed to write start index")
	}

	headerBytes, err := headerBuffer.Bytes()
	if err != nil {
		return ierrors.Wrap(err, "failed to get header bytes")
	}
	if _, err = f.fileHandle.WriteAt(headerBytes, 0); err != nil {
		return ierrors.Wrap(err, "failed to write header bytes")
	}

	if err = f.fileHandle.Sync(); err != nil {
		return ierrors.Wrap(err, "failed to sync header")
	}

	f.headerExists = true

	return nil
}
