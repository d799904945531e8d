// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation and access token handling.

# Access Tokens

Tokens are HS256 JWTs whose subject is the user ID:

	token, err := auth.IssueToken(userID, secret, 24*time.Hour)
	userID, err := auth.ParseToken(token, secret)

Token issuance for real users lives in the account service; IssueToken is
used by tooling and tests. ParseToken rejects tokens with a different
algorithm, issuer, or a missing or past expiry.

# ID Generation

Random UUIDs for database records:

	id := auth.GenerateID()
*/
package auth
