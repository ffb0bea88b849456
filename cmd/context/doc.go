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

// Package main implements the sirseer-context command-line interface.
// This tool fetches GitHub issue, pull request, and commit context and
// prints it as plain text blocks for language model consumption.
//
// The CLI supports:
//   - Mixed batches of issue numbers, PR numbers, and commit SHAs
//   - Output to stdout (default) or per-item files in a timestamped directory
//   - GitHub token authentication via flag or environment variable, with an
//     anonymous mode for public repositories
//   - An optional GraphQL fetch path that costs fewer round trips per item
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	sirseer-context fetch <owner>/<repo> <item> [<item>...] [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-context fetch golang/go 12345 70000 1a2b3c4d5e
//
// Items are processed in input order. A failing item is reported on stderr
// and does not stop the remaining items; output already produced stays on
// stdout. The run exits non-zero if any item failed.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not-found, or rate limit error
//   - 3: Network error
package main
