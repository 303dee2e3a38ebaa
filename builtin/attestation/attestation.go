// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package attestation verifies that the quest signer approved a quest completion.
package attestation

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/questledger/thor"
)

// Verifier reports whether signature over message was produced by signer.
type Verifier interface {
	Verify(signer thor.Address, message []byte, signature []byte) bool
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(signer thor.Address, message []byte, signature []byte) bool

func (f VerifierFunc) Verify(signer thor.Address, message []byte, signature []byte) bool {
	return f(signer, message, signature)
}

// UserQuestsMessage packs an account with the quest ids it completed,
// the address as 20 bytes followed by each id as a 32 byte word.
func UserQuestsMessage(account thor.Address, ids []uint64) []byte {
	msg := make([]byte, 0, 20+32*len(ids))
	msg = append(msg, account.Bytes()...)
	for _, id := range ids {
		msg = append(msg, word(id)...)
	}
	return msg
}

// QuestUsersMessage packs a quest id with the accounts that completed it,
// every element as a 32 byte word.
func QuestUsersMessage(id uint64, accounts []thor.Address) []byte {
	msg := make([]byte, 0, 32+32*len(accounts))
	msg = append(msg, word(id)...)
	for _, account := range accounts {
		w := thor.BytesToBytes32(account.Bytes())
		msg = append(msg, w[:]...)
	}
	return msg
}

func word(v uint64) []byte {
	var w thor.Bytes32
	binary.BigEndian.PutUint64(w[24:], v)
	return w[:]
}

// digest is the Ethereum signed-message hash of keccak256(message).
func digest(message []byte) []byte {
	hash := thor.Keccak256(message)
	return accounts.TextHash(hash[:])
}

// Signature verifies 65 byte recoverable ECDSA signatures, v being 27 or 28.
type Signature struct{}

func (Signature) Verify(signer thor.Address, message []byte, signature []byte) bool {
	recovered, err := Recover(message, signature)
	if err != nil {
		return false
	}
	return !signer.IsZero() && recovered == signer
}

// Recover returns the address that signed message.
func Recover(message []byte, signature []byte) (thor.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return thor.Address{}, errors.New("invalid signature length")
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest(message), sig)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "recover signer")
	}
	return thor.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign produces a signature accepted by Signature.
func Sign(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest(message), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
