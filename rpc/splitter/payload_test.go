package splitter

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeReceivers(t *testing.T) {
	a := util.Uint160{1, 2, 3}
	b := util.Uint160{4, 5, 6}

	data := EncodeReceivers(a, b)
	require.Len(t, data, 2*(2+util.Uint160Size))
	require.Equal(t, byte(0x0a), data[0])
	require.Equal(t, byte(util.Uint160Size), data[1])
	require.Equal(t, a.BytesBE(), data[2:2+util.Uint160Size])

	ra, rb, err := DecodeReceivers(data)
	require.NoError(t, err)
	require.Equal(t, a, ra)
	require.Equal(t, b, rb)
}

func TestDecodeReceivers(t *testing.T) {
	a := util.Uint160{1, 2, 3}
	b := util.Uint160{4, 5, 6}

	field := func(buf []byte, num protowire.Number, val []byte) []byte {
		buf = protowire.AppendTag(buf, num, protowire.BytesType)
		return protowire.AppendBytes(buf, val)
	}

	t.Run("reversed order", func(t *testing.T) {
		data := field(field(nil, 2, b.BytesBE()), 1, a.BytesBE())
		ra, rb, err := DecodeReceivers(data)
		require.NoError(t, err)
		require.Equal(t, a, ra)
		require.Equal(t, b, rb)
	})

	t.Run("repeated field", func(t *testing.T) {
		data := field(EncodeReceivers(b, b), 1, a.BytesBE())
		ra, _, err := DecodeReceivers(data)
		require.NoError(t, err)
		require.Equal(t, a, ra)
	})

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"missing B", field(nil, 1, a.BytesBE())},
		{"short receiver", field(field(nil, 1, a.BytesBE()[:19]), 2, b.BytesBE())},
		{"long receiver", field(field(nil, 1, append(a.BytesBE(), 0)), 2, b.BytesBE())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeReceivers(tc.data)
			require.ErrorContains(t, err, InvalidReceiverError)
		})
	}

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"unknown field", field(EncodeReceivers(a, b), 3, []byte{1})},
		{"wrong type", protowire.AppendVarint(protowire.AppendTag(EncodeReceivers(a, b), 1, protowire.VarintType), 1)},
		{"truncated", EncodeReceivers(a, b)[:30]},
		{"zero field number", []byte{0x02, 0x00}},
		{"garbage", []byte{0xff}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeReceivers(tc.data)
			require.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}
