package splitterconst

import "github.com/nspcc-dev/splitter-contract/common"

// Exceptions thrown by the Splitter contract.
const (
	// ErrUnauthorized is thrown when the caller is not the payment token
	// contract (transfer notification), the owner (fee update, contract
	// update) or the withdrawing account itself.
	ErrUnauthorized = common.ErrUnauthorized

	// ErrInvalidOwner is thrown on deployment with malformed owner account.
	ErrInvalidOwner = "invalid owner"
	// ErrInvalidPaymentToken is thrown on deployment with malformed payment
	// token contract address.
	ErrInvalidPaymentToken = "invalid payment token"
	// ErrInvalidReceiver is thrown when transfer data references a malformed
	// receiver account.
	ErrInvalidReceiver = "invalid receiver"
	// ErrInvalidAccount is thrown when a method is called with malformed
	// account.
	ErrInvalidAccount = "invalid account"
	// ErrInvalidPayload is thrown when transfer data can't be decoded.
	ErrInvalidPayload = "invalid payload"
	// ErrNonPositiveAmount is thrown on transfer of zero or negative amount.
	ErrNonPositiveAmount = "amount must be positive"
	// ErrNegativeAmount is thrown on withdrawal of negative amount.
	ErrNegativeAmount = "negative amount"

	// ErrConfigNotFound is thrown when contract configuration is missing.
	ErrConfigNotFound = "config not found"
	// ErrWithdrawableNotFound is thrown when account has no withdrawable
	// balance record. Callers should treat it as zero balance.
	ErrWithdrawableNotFound = "withdrawable balance not found"

	// ErrTransferFailed is thrown when payment token refuses to pay the
	// withdrawal out.
	ErrTransferFailed = "failed to transfer funds, aborting"

	// ErrOverflow is thrown when a value does not fit into its integer width.
	ErrOverflow = common.ErrOverflow
	// ErrUnderflow is thrown when a balance would become negative.
	ErrUnderflow = common.ErrUnderflow
	// ErrDivisionByZero is thrown on division by zero in fee computation.
	ErrDivisionByZero = common.ErrDivisionByZero
)

// BasisPointScale is the fee rate in basis points that charges the whole
// amount.
const BasisPointScale = common.BasisPointScale

// Payload field numbers of the receiver instruction passed as NEP-17 transfer
// data:
//
//	message ReceiverInstruction {
//	  bytes receiver_a = 1;
//	  bytes receiver_b = 2;
//	}
const (
	FieldReceiverA = 1
	FieldReceiverB = 2
)
