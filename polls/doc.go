// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements poll creation, voting, and closing.

# Storage

A poll is a post row of type "poll". Its question, options, tallies,
settings and vote ledger live together in the post's poll_data column as
one JSON document, and the row carries a version number.

# Writes

Every mutation is a read-modify-write of the whole document:

	res, err := engine.VotePoll(ctx, pollID, userID, []int{1})

The row is read (locked on PostgreSQL), changed in memory, and written
back with UPDATE ... WHERE version = $n. If another writer got there
first the attempt is discarded and retried, up to WithMaxAttempts times,
after which apperr.Conflict is returned.

# Vote Rules

Checks run in this order: hidden, ended, empty selection, index range,
single-choice arity. On a single-choice poll a repeat vote replaces the
user's earlier entry. On a multiple-choice poll each call appends an
entry, so the same option can be counted more than once for one user.

After every committed write each option's tally equals the number of
ledger entries naming it. Poll.Recount recomputes this from the ledger.
*/
package polls
