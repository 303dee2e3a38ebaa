// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts carries the business rule failures of the ledger components.
// A revert aborts the current operation and rolls back every state write it made.
package reverts

import (
	"encoding/binary"
	"errors"
)

// errorSelector is the 4-byte selector of Error(string).
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{message: message}
}

// Require returns a revert carrying message when cond does not hold.
func Require(cond bool, message string) error {
	if cond {
		return nil
	}
	return New(message)
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Bytes returns the reason abi encoded as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	msg := []byte(e.message)
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, errorSelector)
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

func IsRevertErr(err any) bool {
	_, ok := AsRevert(err)
	return ok
}

// AsRevert finds the first revert in the chain of err.
func AsRevert(err any) (*ErrRevert, bool) {
	e, ok := err.(error)
	if !ok || e == nil {
		return nil, false
	}
	var re *ErrRevert
	if errors.As(e, &re) && re != nil {
		return re, true
	}
	return nil, false
}
