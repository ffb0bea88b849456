// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed or no credential
	// was available. Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrItemNotFound indicates the requested issue, pull request, or commit
	// does not exist in the repository, or the repository itself is not
	// accessible. Maps to exit code 2.
	ErrItemNotFound = errors.New("item not found")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrBadResponse indicates the API returned a payload without the
	// expected shape, e.g. a diff endpoint returning non-diff text.
	// Maps to exit code 1.
	ErrBadResponse = errors.New("unexpected response from github")

	// ErrNetworkFailure indicates a network connection problem or timeout.
	// Requests are never retried automatically. Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")
)
