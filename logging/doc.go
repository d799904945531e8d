// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging provides the process-wide zerolog logger.

# Setup

Call Init once from main:

	logging.Init(logging.Config{Level: "info", Format: "json"})

Before Init the logger writes JSON at info level to stderr.

# Usage

	logging.Info().Str("port", addr).Msg("listening")
	logging.Ctx(ctx).Warn().Err(err).Msg("notification failed")

Ctx attaches the request_id set by middleware.RequestID. Always finish an
event with Msg or Send, otherwise nothing is written.
*/
package logging
