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

// Package github provides types and interfaces for interacting with the GitHub API.
package github

import "time"

// Kind classifies a fetched item. It is produced by Client.Resolve from the
// API response; callers branch on the tag, never on response shape.
type Kind string

// Item kinds. The string values double as the kind segment in per-item
// output file names.
const (
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pr"
	KindCommit      Kind = "commit"
)

// Item is the assembled view of one issue, pull request, or commit:
// metadata plus the full conversation. Nothing here persists past the
// process; it exists only to be rendered.
type Item struct {
	Kind   Kind
	Number int    // issue / PR number, zero for commits
	SHA    string // commits only

	Title  string
	Author string
	State  string
	Body   string

	CreatedAt time.Time
	ClosedAt  *time.Time
	ClosedBy  string
	Merged    bool
	MergedAt  *time.Time
	MergedBy  string

	Labels    []string
	Assignees []string
	Milestone string

	ChangedFiles int
	Additions    int
	Deletions    int

	// Comments are in API order, which is creation order.
	Comments       []Comment
	ReviewComments []ReviewComment
	Reviews        []Review

	// Files carries per-file patches for commits. Pull request diffs are
	// fetched whole via FetchDiff instead.
	Files []FileChange
}

// Comment is a single conversation entry.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// ReviewComment is an inline code comment on a pull request.
type ReviewComment struct {
	Comment
	Path     string
	Line     int // 0 when GitHub reports no line (outdated threads)
	DiffHunk string
}

// Review is a formal pull request review: approval, change request, or a
// top-level review comment.
type Review struct {
	Author      string
	State       string // APPROVED, CHANGES_REQUESTED, COMMENTED, ...
	Body        string
	SubmittedAt *time.Time
}

// FileChange describes one file touched by a commit, including its patch
// when GitHub provides one (absent for binary files).
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// RepoRef identifies a repository. Both fields are non-empty for the
// lifetime of a run.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form used in output and error messages.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Page size for comment and review listings, GitHub's maximum.
const listPageSize = 100
