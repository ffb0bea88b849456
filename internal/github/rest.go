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

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v57/github"

	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
	"github.com/sirseerhq/sirseer-context/internal/giterror"
)

// RESTClient implements the Client interface against the GitHub REST v3 API.
// It is the default client: the REST API is the only surface that serves raw
// unified diffs and per-file commit patches.
type RESTClient struct {
	client    *gh.Client
	inspector giterror.Inspector
}

// NewRESTClient creates a GitHub REST client. An empty token selects
// anonymous access. baseURL overrides the API endpoint for GitHub
// Enterprise; empty means api.github.com.
func NewRESTClient(token, baseURL string) (*RESTClient, error) {
	client := gh.NewClient(newHTTPClient(token))
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
		}
	}

	return &RESTClient{
		client:    client,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}, nil
}

// Resolve classifies number as an issue or pull request via a single issue
// lookup. GitHub serves pull requests through the issue endpoint with a
// pull_request link attached.
func (c *RESTClient) Resolve(ctx context.Context, ref RepoRef, number int) (Kind, error) {
	issue, _, err := c.client.Issues.Get(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return "", c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}
	if issue.IsPullRequest() {
		return KindPullRequest, nil
	}
	return KindIssue, nil
}

// FetchItem retrieves metadata and the complete conversation for an issue or
// pull request.
func (c *RESTClient) FetchItem(ctx context.Context, ref RepoRef, number int, kind Kind) (*Item, error) {
	var item *Item
	var err error

	switch kind {
	case KindPullRequest:
		item, err = c.fetchPullRequest(ctx, ref, number)
	case KindIssue:
		item, err = c.fetchIssue(ctx, ref, number)
	default:
		return nil, fmt.Errorf("cannot fetch kind %q by number: %w", kind, relaierrors.ErrBadResponse)
	}
	if err != nil {
		return nil, err
	}

	item.Comments, err = c.FetchComments(ctx, ref, number)
	if err != nil {
		return nil, err
	}

	if kind == KindPullRequest {
		item.ReviewComments, err = c.fetchReviewComments(ctx, ref, number)
		if err != nil {
			return nil, err
		}
		item.Reviews, err = c.fetchReviews(ctx, ref, number)
		if err != nil {
			return nil, err
		}
	}

	return item, nil
}

func (c *RESTClient) fetchIssue(ctx context.Context, ref RepoRef, number int) (*Item, error) {
	issue, _, err := c.client.Issues.Get(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return nil, c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}

	item := &Item{
		Kind:      KindIssue,
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		State:     issue.GetState(),
		Body:      issue.GetBody(),
		CreatedAt: issue.GetCreatedAt().Time,
		ClosedBy:  issue.GetClosedBy().GetLogin(),
		Milestone: issue.GetMilestone().GetTitle(),
	}
	if issue.ClosedAt != nil {
		t := issue.ClosedAt.Time
		item.ClosedAt = &t
	}
	for _, label := range issue.Labels {
		item.Labels = append(item.Labels, label.GetName())
	}
	for _, assignee := range issue.Assignees {
		item.Assignees = append(item.Assignees, assignee.GetLogin())
	}

	return item, nil
}

func (c *RESTClient) fetchPullRequest(ctx context.Context, ref RepoRef, number int) (*Item, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return nil, c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}

	item := &Item{
		Kind:         KindPullRequest,
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		State:        pr.GetState(),
		Body:         pr.GetBody(),
		CreatedAt:    pr.GetCreatedAt().Time,
		Merged:       pr.GetMerged(),
		MergedBy:     pr.GetMergedBy().GetLogin(),
		Milestone:    pr.GetMilestone().GetTitle(),
		ChangedFiles: pr.GetChangedFiles(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
	}
	if pr.ClosedAt != nil {
		t := pr.ClosedAt.Time
		item.ClosedAt = &t
	}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		item.MergedAt = &t
	}
	for _, label := range pr.Labels {
		item.Labels = append(item.Labels, label.GetName())
	}
	for _, assignee := range pr.Assignees {
		item.Assignees = append(item.Assignees, assignee.GetLogin())
	}

	return item, nil
}

// FetchComments retrieves the discussion comments for an issue or pull
// request, following Link-header pagination to completion.
func (c *RESTClient) FetchComments(ctx context.Context, ref RepoRef, number int) ([]Comment, error) {
	comments := []Comment{}
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}

	for {
		page, resp, err := c.client.Issues.ListComments(ctx, ref.Owner, ref.Name, number, opts)
		if err != nil {
			return nil, c.mapError(err, ref, fmt.Sprintf("#%d comments", number))
		}
		for _, comment := range page {
			comments = append(comments, Comment{
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

func (c *RESTClient) fetchReviewComments(ctx context.Context, ref RepoRef, number int) ([]ReviewComment, error) {
	var comments []ReviewComment
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}

	for {
		page, resp, err := c.client.PullRequests.ListComments(ctx, ref.Owner, ref.Name, number, opts)
		if err != nil {
			return nil, c.mapError(err, ref, fmt.Sprintf("#%d review comments", number))
		}
		for _, comment := range page {
			comments = append(comments, ReviewComment{
				Comment: Comment{
					Author:    comment.GetUser().GetLogin(),
					Body:      comment.GetBody(),
					CreatedAt: comment.GetCreatedAt().Time,
				},
				Path:     comment.GetPath(),
				Line:     comment.GetLine(),
				DiffHunk: comment.GetDiffHunk(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

func (c *RESTClient) fetchReviews(ctx context.Context, ref RepoRef, number int) ([]Review, error) {
	var reviews []Review
	opts := &gh.ListOptions{PerPage: listPageSize}

	for {
		page, resp, err := c.client.PullRequests.ListReviews(ctx, ref.Owner, ref.Name, number, opts)
		if err != nil {
			return nil, c.mapError(err, ref, fmt.Sprintf("#%d reviews", number))
		}
		for _, review := range page {
			r := Review{
				Author: review.GetUser().GetLogin(),
				State:  review.GetState(),
				Body:   review.GetBody(),
			}
			if review.SubmittedAt != nil {
				t := review.SubmittedAt.Time
				r.SubmittedAt = &t
			}
			reviews = append(reviews, r)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return reviews, nil
}

// FetchDiff retrieves the raw unified diff of a pull request via the diff
// media type.
func (c *RESTClient) FetchDiff(ctx context.Context, ref RepoRef, number int) (string, error) {
	diff, _, err := c.client.PullRequests.GetRaw(ctx, ref.Owner, ref.Name, number,
		gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", c.mapError(err, ref, fmt.Sprintf("#%d diff", number))
	}
	if !isDiffShaped(diff) {
		return "", fmt.Errorf("diff for %s#%d is not unified diff text: %w",
			ref, number, relaierrors.ErrBadResponse)
	}
	return diff, nil
}

// isDiffShaped reports whether text plausibly is a unified diff. An empty
// diff is valid (e.g. a PR that only renames with no content change).
func isDiffShaped(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	for _, prefix := range []string{"diff ", "--- ", "Index: ", "From "} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// FetchCommit retrieves commit metadata, stats, and per-file patches. The
// file list is paginated; only the first page carries the commit metadata
// and stats, later pages contribute files only.
func (c *RESTClient) FetchCommit(ctx context.Context, ref RepoRef, sha string) (*Item, error) {
	var item *Item
	opts := &gh.ListOptions{PerPage: listPageSize}

	for {
		commit, resp, err := c.client.Repositories.GetCommit(ctx, ref.Owner, ref.Name, sha, opts)
		if err != nil {
			return nil, c.mapError(err, ref, sha)
		}

		if item == nil {
			author := commit.GetAuthor().GetLogin()
			if author == "" {
				author = commit.GetCommit().GetAuthor().GetName()
			}

			item = &Item{
				Kind:      KindCommit,
				SHA:       commit.GetSHA(),
				Title:     firstLine(commit.GetCommit().GetMessage()),
				Body:      commit.GetCommit().GetMessage(),
				Author:    author,
				CreatedAt: commit.GetCommit().GetAuthor().GetDate().Time,
				Additions: commit.GetStats().GetAdditions(),
				Deletions: commit.GetStats().GetDeletions(),
			}
		}

		for _, file := range commit.Files {
			item.Files = append(item.Files, FileChange{
				Filename:  file.GetFilename(),
				Status:    file.GetStatus(),
				Additions: file.GetAdditions(),
				Deletions: file.GetDeletions(),
				Patch:     file.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	item.ChangedFiles = len(item.Files)

	return item, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], "\r")
	}
	return s
}

// mapError maps API errors to our domain errors with actionable messages.
// Rate limit is checked before auth: GitHub reports both as 403.
func (c *RESTClient) mapError(err error, ref RepoRef, what string) error {
	if err == nil {
		return nil
	}

	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded fetching %s %s. Please wait before retrying: %w",
			ref, what, relaierrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w",
			relaierrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("%s not found in %s. Please check the identifier and your access permissions: %w",
			what, ref, relaierrors.ErrItemNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error fetching %s %s. Please check your internet connection and try again: %w",
			ref, what, relaierrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch %s %s: %w", ref, what, err)
}
