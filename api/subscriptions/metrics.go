// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/questledger/metrics"
)

var (
	metricListeners = metrics.LazyLoadGauge("subscriptions_listeners")
	metricDropped   = metrics.LazyLoadCounter("subscriptions_dropped_count")
)
