package net

import (
	"bytes"
	"testing"

	"github.com/mopgo/server/internal/net/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	body := EncodeBody(packet.CMSG_QUERY_TIME, []byte{1, 2, 3})
	require.NoError(t, WriteFrame(&buf, body))

	assert.Equal(t, []byte{7, 0, 0x12, 0x0A, 1, 2, 3}, buf.Bytes())

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short header", []byte{4}},
		{"no opcode", []byte{2, 0}},
		{"opcode cut", []byte{3, 0, 1}},
		{"body cut", []byte{8, 0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, make([]byte, MaxFrameSize+1))
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
