package splitter

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidPayload is returned when transfer data can't be decoded into
// receivers.
var ErrInvalidPayload = errors.New(InvalidPayloadError)

// EncodeReceivers encodes the pair of receivers into data to be attached to
// the NEP-17 transfer to the Splitter contract.
func EncodeReceivers(a, b util.Uint160) []byte {
	buf := make([]byte, 0, 2*(1+1+util.Uint160Size))

	buf = protowire.AppendTag(buf, splitterconst.FieldReceiverA, protowire.BytesType)
	buf = protowire.AppendBytes(buf, a.BytesBE())
	buf = protowire.AppendTag(buf, splitterconst.FieldReceiverB, protowire.BytesType)
	buf = protowire.AppendBytes(buf, b.BytesBE())

	return buf
}

// DecodeReceivers decodes the pair of receivers from transfer data the same
// way the contract does. Unknown fields are not allowed, repeated field
// overrides the previous one.
func DecodeReceivers(data []byte) (util.Uint160, util.Uint160, error) {
	var a, b []byte

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("%w: %v", ErrInvalidPayload, protowire.ParseError(n))
		}
		data = data[n:]

		if typ != protowire.BytesType {
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("%w: wrong type of field #%d: %d", ErrInvalidPayload, num, typ)
		}

		val, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("%w: field #%d: %v", ErrInvalidPayload, num, protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case splitterconst.FieldReceiverA:
			a = val
		case splitterconst.FieldReceiverB:
			b = val
		default:
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("%w: unknown field #%d", ErrInvalidPayload, num)
		}
	}

	ra, err := util.Uint160DecodeBytesBE(a)
	if err != nil {
		return util.Uint160{}, util.Uint160{}, fmt.Errorf("%s A: %w", InvalidReceiverError, err)
	}

	rb, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, util.Uint160{}, fmt.Errorf("%s B: %w", InvalidReceiverError, err)
	}

	return ra, rb, nil
}
