// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apperr defines the typed errors returned by the poll and meeting
engines.

# Kinds

  - Validation: malformed input, detected before any write
  - State: the aggregate's current state forbids the operation
  - Authorization: the actor lacks rights
  - NotFound: the referenced aggregate does not exist
  - Conflict: the optimistic retry budget ran out; retry the whole call

The HTTP layer maps kinds to status codes (see middleware.WriteError).
Errors compare by kind with errors.Is:

	if errors.Is(err, apperr.NotFound("")) {
		...
	}
*/
package apperr
