package splitter

import (
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
)

const (
	// UnauthorizedError is returned when the invocation is not witnessed by
	// the principal the method is reserved for.
	UnauthorizedError = splitterconst.ErrUnauthorized

	// ConfigNotFoundError is returned if contract configuration is missing.
	ConfigNotFoundError = splitterconst.ErrConfigNotFound
	// WithdrawableNotFoundError is returned if account has no withdrawable
	// balance.
	WithdrawableNotFoundError = splitterconst.ErrWithdrawableNotFound

	// InvalidPayloadError is returned on malformed transfer data.
	InvalidPayloadError = splitterconst.ErrInvalidPayload
	// InvalidReceiverError is returned on malformed receiver in transfer data.
	InvalidReceiverError = splitterconst.ErrInvalidReceiver

	// TransferFailedError is returned when payment token refuses to pay
	// withdrawal out.
	TransferFailedError = splitterconst.ErrTransferFailed
)

// BasisPointScale is the fee rate in basis points that charges the whole
// amount.
const BasisPointScale = splitterconst.BasisPointScale
