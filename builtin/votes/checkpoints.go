// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"encoding/binary"
	"math/big"

	"github.com/vechain/questledger/builtin/solidity"
	"github.com/vechain/questledger/thor"
)

// Checkpoint is the voting power of an account from Height onwards.
type Checkpoint struct {
	Height uint32
	Votes  *big.Int
}

type indexKey struct {
	owner thor.Address
	index uint32
}

func (k indexKey) Bytes() []byte {
	b := make([]byte, 24)
	copy(b, k.owner.Bytes())
	binary.BigEndian.PutUint32(b[20:], k.index)
	return b
}

// history is an append-only list of checkpoints per owner, strictly increasing in height.
type history struct {
	lengths *solidity.Mapping[thor.Address, uint32]
	items   *solidity.Mapping[indexKey, *Checkpoint]
}

func newHistory(sctx *solidity.Context, name string) *history {
	return &history{
		lengths: solidity.NewMapping[thor.Address, uint32](sctx, thor.Blake2b([]byte(name), []byte("length"))),
		items:   solidity.NewMapping[indexKey, *Checkpoint](sctx, thor.Blake2b([]byte(name), []byte("items"))),
	}
}

func (h *history) len(owner thor.Address) (uint32, error) {
	return h.lengths.Get(owner)
}

func (h *history) at(owner thor.Address, pos uint32) (*Checkpoint, error) {
	ckp, err := h.items.Get(indexKey{owner, pos})
	if err != nil {
		return nil, err
	}
	if ckp.Votes == nil {
		ckp.Votes = new(big.Int)
	}
	return ckp, nil
}

// latest returns the votes of the last checkpoint, zero when there is none.
func (h *history) latest(owner thor.Address) (*big.Int, error) {
	n, err := h.len(owner)
	if err != nil || n == 0 {
		return new(big.Int), err
	}
	ckp, err := h.at(owner, n-1)
	if err != nil {
		return nil, err
	}
	return ckp.Votes, nil
}

// write records votes at height. A write at the height of the last
// checkpoint overwrites it, otherwise a new checkpoint is appended.
func (h *history) write(owner thor.Address, height uint32, votes *big.Int) error {
	n, err := h.len(owner)
	if err != nil {
		return err
	}
	if n > 0 {
		last, err := h.at(owner, n-1)
		if err != nil {
			return err
		}
		if last.Height == height {
			return h.items.Set(indexKey{owner, n - 1}, &Checkpoint{Height: height, Votes: votes})
		}
	}
	if err := h.items.Set(indexKey{owner, n}, &Checkpoint{Height: height, Votes: votes}); err != nil {
		return err
	}
	return h.lengths.Set(owner, n+1)
}

// lookup returns the votes of the last checkpoint at or before height.
func (h *history) lookup(owner thor.Address, height uint32) (*big.Int, error) {
	n, err := h.len(owner)
	if err != nil {
		return nil, err
	}
	// upper bound: first checkpoint with Height > height
	low, high := uint32(0), n
	for low < high {
		mid := low + (high-low)/2
		ckp, err := h.at(owner, mid)
		if err != nil {
			return nil, err
		}
		if ckp.Height > height {
			high = mid
		} else {
			low = mid + 1
		}
	}
	if high == 0 {
		return new(big.Int), nil
	}
	ckp, err := h.at(owner, high-1)
	if err != nil {
		return nil, err
	}
	return ckp.Votes, nil
}
