// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, transactions, and schema creation.

# Connections

Open connects to PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite):

	store, err := db.Open(db.Postgres, "postgres://...")
	store, err := db.Open(db.SQLite, "file:gather.db")

SQLite pools hold one connection so that transactions never interleave.

# Transactions

Every multi-statement write goes through WithTx:

	err := store.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, "SELECT ... WHERE id = $1"+store.ForUpdate(), id)
		...
	})

ForUpdate appends FOR UPDATE on PostgreSQL and nothing on SQLite.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(store); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - community_member: community membership and supporter flag
  - group_member: group membership and role
  - post: content items; polls store their document in poll_data
  - meeting: capacity-limited meetings
  - meeting_participant: attending or waitlisted users per meeting

# Relationships

	meeting 1──* meeting_participant

Poll votes live inside post.poll_data; post.version is bumped on every
rewrite and used for compare-and-swap.
*/
package db
