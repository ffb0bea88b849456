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

package github

import "context"

// Client defines the interface for fetching issue, pull request, and commit
// context from GitHub. This interface allows for easy mocking in tests.
// Every method makes a single attempt per request; retries are the caller's
// business, and the caller here chooses not to.
type Client interface {
	// Resolve classifies a numeric identifier as an issue or a pull request.
	// GitHub represents pull requests as issues with an extra pull_request
	// field, so one issue lookup disambiguates.
	Resolve(ctx context.Context, ref RepoRef, number int) (Kind, error)

	// FetchItem retrieves metadata and the complete conversation for the
	// given issue or pull request, paginating the comment listings to
	// completion. kind must come from a prior Resolve call.
	FetchItem(ctx context.Context, ref RepoRef, number int, kind Kind) (*Item, error)

	// FetchComments retrieves the discussion comments for an issue or pull
	// request in chronological order. An item with no comments yields an
	// empty slice, not an error.
	FetchComments(ctx context.Context, ref RepoRef, number int) ([]Comment, error)

	// FetchDiff retrieves the raw unified diff of a pull request.
	// Only meaningful for KindPullRequest.
	FetchDiff(ctx context.Context, ref RepoRef, number int) (string, error)

	// FetchCommit retrieves commit metadata and per-file patches.
	FetchCommit(ctx context.Context, ref RepoRef, sha string) (*Item, error)
}
