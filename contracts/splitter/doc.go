/*
Package splitter implements Splitter contract which divides incoming NEP-17
payments between two receivers.

Splitter contract accepts transfers of a single payment token configured at
deployment. Each transfer carries the pair of receivers in its data, the
contract keeps a configurable fee and credits the rest in two halves to the
withdrawable balances of the receivers. The first receiver gets the floor half,
the second one gets the remainder. Receivers then withdraw their balances
whenever they want, the contract pays them out with the payment token.

The fee is set in basis points (hundredths of a percent) and computed with
fixed-point arithmetic in the precision of the payment token:

	rate = feeBasisPoint * 10^decimals / 10000
	fee = amount * rate / 10^decimals

Both divisions truncate. Every intermediate value must fit into 128 bits,
otherwise the transfer is rejected. Fee stays on the contract account.

Transfer data is a protobuf-encoded message:

	message ReceiverInstruction {
	  bytes receiver_a = 1; // 20-byte script hash
	  bytes receiver_b = 2; // 20-byte script hash
	}

# Contract notifications

Split notification. This notification is produced when a payment is split. It
contains both receivers with their resulting withdrawable balances and the fee
kept by the contract.

	Split:
	  - name: receiverA
	    type: Hash160
	  - name: balanceA
	    type: Integer
	  - name: receiverB
	    type: Hash160
	  - name: balanceB
	    type: Integer
	  - name: fee
	    type: Integer

Withdraw notification. This notification is produced when an account withdraws
a part of its balance. Remaining balance is zero when the account record has
been removed.

	Withdraw:
	  - name: account
	    type: Hash160
	  - name: remaining
	    type: Integer
	  - name: amount
	    type: Integer

# Contract storage model

	| Key                  | Value                        |
	|----------------------|------------------------------|
	| 'config'             | serialized Config structure  |
	| 'w' + account        | withdrawable balance Integer |

Account never has zero balance record: it is removed when the balance drops to
zero and it is not created by zero credit.
*/
package splitter
