// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		goes  Goes
		count atomic.Int32
		gate  = make(chan struct{})
	)
	for range 3 {
		goes.Go(func() {
			<-gate
			count.Add(1)
		})
	}

	done := goes.Done()
	select {
	case <-done:
		t.Fatal("done before goroutines returned")
	case <-time.After(10 * time.Millisecond):
	}

	close(gate)
	goes.Wait()
	assert.Equal(t, int32(3), count.Load())
	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}
