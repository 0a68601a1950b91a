package hash

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	data := Sha256([]byte("hello"))
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	assert.Equal(t, expected, hex.EncodeToString(data.BytesBE()))
}

func TestDoubleSha256(t *testing.T) {
	input := []byte("hello")
	data := DoubleSha256(input)

	first := Sha256(input)
	want := Sha256(first.BytesBE())

	assert.Equal(t, want.BytesBE(), data.BytesBE())
}

func TestRipeMD160(t *testing.T) {
	data := RipeMD160([]byte("hello"))
	expected := "108f07b8382412612c048d07d13f814118445acd"
	assert.Equal(t, expected, hex.EncodeToString(data.BytesBE()))
}

func TestHash160(t *testing.T) {
	pub, err := hex.DecodeString("02cccafb41b220cab63fd77108d2d1ebcffa32be26da29a04dca4996afce5f75db")
	require.NoError(t, err)
	data := Hash160(pub)
	expected := "c8e2b685cc70ec96743b55beb9449782f8f775d8"
	assert.Equal(t, expected, hex.EncodeToString(data.BytesBE()))
}

func TestChecksum(t *testing.T) {
	cases := []struct {
		data []byte
		sum  uint32
	}{
		{nil, 0xe2e0f65d},
		{[]byte{}, 0xe2e0f65d},
		{[]byte{1, 2, 3, 4}, 0xe272e48d},
	}
	for _, c := range cases {
		require.Equal(t, c.sum, binary.LittleEndian.Uint32(Checksum(c.data)))
	}
}
