// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package access decides who may create polls, vote, attend meetings and
// manage them, based on community and group membership.
package access
