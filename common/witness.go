package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrUnauthorized appears when the method is invoked by anyone except the
// principal it is reserved for.
const ErrUnauthorized = "unauthorized"

// CheckWitness checks witness of the passed account.
// It panics with ErrUnauthorized message on fail.
func CheckWitness(account interop.Hash160) {
	if !runtime.CheckWitness(account) {
		panic(ErrUnauthorized)
	}
}

// CheckCaller checks that the currently executing script was called by the
// expected contract. It panics with ErrUnauthorized message on fail.
func CheckCaller(expected interop.Hash160) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(expected) {
		panic(ErrUnauthorized)
	}
}
