package healthcheck

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramedWriterWriteFramed(t *testing.T) {
	var buf bytes.Buffer
	writer := NewFramedWriter(&buf)

	assert.NoError(t, writer.WriteFramed(7, []byte("hello")))

	data := buf.Bytes()
	assert.Equal(t, byte(7), data[0])
	assert.Equal(t, uint32(5), binary.BigEndian.Uint32(data[1:5]))
	assert.Equal(t, "hello", string(data[5:]))
}

func TestFramedWriterMultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	writer := NewFramedWriter(&buf)

	assert.NoError(t, writer.WriteFramed(1, []byte("a")))
	assert.NoError(t, writer.WriteFramed(2, []byte("bb")))

	data := buf.Bytes()
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(data[1:5]))
	assert.Equal(t, "a", string(data[5:6]))
	assert.Equal(t, byte(2), data[6])
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(data[7:11]))
	assert.Equal(t, "bb", string(data[11:13]))
}
