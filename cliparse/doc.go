// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv can be called first to pull variables from a .env file.

# CLI Flags

	-p              Server port (default 3318)
	-d              Database URL (required)
	-t              Database type: sqlite (default) or postgres
	--jwt-secret    Access token signing secret (required)
	--log-level     debug, info, warn, error
	--log-format    json or console
	--vote-attempts Attempts per vote before a conflict is reported (default 5)
	--rate-limit    Write requests per minute per client (default 120)
	--kafka-brokers Comma separated brokers for promotion events
	--kafka-topic   Topic for promotion events (default meeting-promotions)
	--cors-origins  Comma separated allowed origins (default *)

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, JWT_SECRET, LOG_LEVEL, LOG_FORMAT,
	VOTE_MAX_ATTEMPTS, RATE_LIMIT_PER_MINUTE, KAFKA_BROKERS, KAFKA_TOPIC,
	CORS_ORIGINS

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing, if
the database type is unknown, or if a numeric variable does not parse.
*/
package cliparse
