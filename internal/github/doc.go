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

// Package github provides clients for fetching issue, pull request, and
// commit context from GitHub. It abstracts the REST and GraphQL APIs behind
// a single interface and maps API failures onto the application's error
// taxonomy.
//
// The package includes:
//   - A Client interface for resolving and fetching items
//   - A REST implementation using google/go-github (the default; the REST
//     API is the only source of raw diffs and commit patches)
//   - A GraphQL implementation using shurcooL/githubv4 that fetches an
//     item's metadata and conversation in fewer round trips
//   - A mock client for testing
//   - Type definitions for the fetched data
//
// Basic usage:
//
//	client, err := github.NewRESTClient(token, "")
//	if err != nil {
//	    // Handle error
//	}
//	kind, err := client.Resolve(ctx, github.RepoRef{Owner: "golang", Name: "go"}, 12345)
//	if err != nil {
//	    // Handle error
//	}
//	item, err := client.FetchItem(ctx, ref, 12345, kind)
package github
