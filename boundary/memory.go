package boundary

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bytebridge/errors"
)

// Memory is the foreign side's linear memory.
type Memory interface {
	// Read returns length bytes at offset. The slice may alias the
	// foreign memory; callers copy before keeping it.
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// WazeroMemory adapts a wazero guest memory to Memory.
type WazeroMemory struct {
	mem api.Memory
}

func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds("read", offset, length, m.mem.Size())
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return outOfBounds("write", offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}

func outOfBounds(op string, offset, length, size uint32) *errors.Error {
	return errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
		Value(offset).
		Detail("%s out of bounds: offset=%d, length=%d, memory size=%d", op, offset, length, size).
		Build()
}
