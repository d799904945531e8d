// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestVoteCounters(t *testing.T) {
	before := testutil.ToFloat64(VotesTotal.WithLabelValues("created"))
	VotesTotal.WithLabelValues("created").Inc()
	after := testutil.ToFloat64(VotesTotal.WithLabelValues("created"))

	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestPromotionsCounter(t *testing.T) {
	before := testutil.ToFloat64(Promotions)
	Promotions.Add(3)
	if got := testutil.ToFloat64(Promotions) - before; got != 3 {
		t.Errorf("expected 3 promotions, got %v", got)
	}
}
