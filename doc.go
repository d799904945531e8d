// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Gather API server.

Gather runs community polls and capacity-limited group meetings. Votes
and attendance changes stay consistent under concurrent requests: poll
documents are rewritten with a version check, and meeting participation
is changed only while the meeting row is locked.

# Starting the Server

The server reads a .env file if present, then environment variables or
CLI flags:

	DATABASE_URL=file:gather.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string
  - JWT_SECRET (--jwt-secret): HS256 key for bearer tokens

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL, LOG_FORMAT: zerolog level and json/console output
  - VOTE_MAX_ATTEMPTS: retries for a conflicting poll write (default: 5)
  - RATE_LIMIT_PER_MINUTE: writes per user per minute (default: 120)
  - KAFKA_BROKERS, KAFKA_TOPIC: publish waitlist promotions to Kafka
  - CORS_ORIGINS: allowed origins (default: *)

# Architecture

  - polls: poll creation, voting, ending and hiding
  - meetings: attendance, waitlist and capacity changes
  - access: membership-based permission checks
  - notify: promotion notices (log or Kafka)
  - handlers, router, middleware: HTTP layer
  - db: connections, transactions, schema
  - apperr: domain error kinds
  - logging, metrics: zerolog and Prometheus
  - models, auth, cliparse: shared types, tokens and IDs, configuration

See package documentation for each component.
*/
package main
