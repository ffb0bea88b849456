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

	"github.com/shurcooL/githubv4"

	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
	"github.com/sirseerhq/sirseer-context/internal/giterror"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
// One query resolves an identifier's kind, and one more pulls metadata plus
// the first page of conversation, so items with short threads cost two round
// trips instead of four or five. Raw diffs and commit patches only exist
// over REST, so those calls delegate to an embedded REST client.
type GraphQLClient struct {
	client    *githubv4.Client
	rest      *RESTClient
	inspector giterror.Inspector
}

// NewGraphQLClient creates a GitHub GraphQL client. graphqlURL overrides the
// endpoint for GitHub Enterprise; empty means api.github.com. restBaseURL is
// passed through to the embedded REST client used for diffs and commits.
func NewGraphQLClient(token, graphqlURL, restBaseURL string) (*GraphQLClient, error) {
	httpClient := newHTTPClient(token)

	var client *githubv4.Client
	if graphqlURL == "" {
		client = githubv4.NewClient(httpClient)
	} else {
		client = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	rest, err := NewRESTClient(token, restBaseURL)
	if err != nil {
		return nil, err
	}

	return &GraphQLClient{
		client:    client,
		rest:      rest,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}, nil
}

// commentNode mirrors the GraphQL IssueComment shape.
type commentNode struct {
	Author struct {
		Login githubv4.String
	}
	Body      githubv4.String
	CreatedAt githubv4.DateTime
}

func (n commentNode) toComment() Comment {
	return Comment{
		Author:    string(n.Author.Login),
		Body:      string(n.Body),
		CreatedAt: n.CreatedAt.Time,
	}
}

// commentPage mirrors a paginated comments connection.
type commentPage struct {
	PageInfo struct {
		HasNextPage githubv4.Boolean
		EndCursor   githubv4.String
	}
	Nodes []commentNode
}

// reviewNode mirrors a PullRequestReview with its inline comments. Inline
// comments are capped at one page per review; a single review carrying more
// than 100 inline comments is not drained further.
type reviewNode struct {
	State       githubv4.String
	Body        githubv4.String
	SubmittedAt *githubv4.DateTime
	Author      struct {
		Login githubv4.String
	}
	Comments struct {
		Nodes []struct {
			Author struct {
				Login githubv4.String
			}
			Body      githubv4.String
			CreatedAt githubv4.DateTime
			Path      githubv4.String
			Line      *githubv4.Int
			DiffHunk  githubv4.String
		}
	} `graphql:"comments(first: 100)"`
}

// reviewPage mirrors a paginated reviews connection.
type reviewPage struct {
	PageInfo struct {
		HasNextPage githubv4.Boolean
		EndCursor   githubv4.String
	}
	Nodes []reviewNode
}

// appendReview flattens one review node into the item's reviews and inline
// review comments.
func appendReview(item *Item, review reviewNode) {
	r := Review{
		Author: string(review.Author.Login),
		State:  string(review.State),
		Body:   string(review.Body),
	}
	if review.SubmittedAt != nil {
		t := review.SubmittedAt.Time
		r.SubmittedAt = &t
	}
	item.Reviews = append(item.Reviews, r)

	for _, rc := range review.Comments.Nodes {
		line := 0
		if rc.Line != nil {
			line = int(*rc.Line)
		}
		item.ReviewComments = append(item.ReviewComments, ReviewComment{
			Comment: Comment{
				Author:    string(rc.Author.Login),
				Body:      string(rc.Body),
				CreatedAt: rc.CreatedAt.Time,
			},
			Path:     string(rc.Path),
			Line:     line,
			DiffHunk: string(rc.DiffHunk),
		})
	}
}

// Resolve classifies number via the issueOrPullRequest union, which
// disambiguates in a single query.
func (c *GraphQLClient) Resolve(ctx context.Context, ref RepoRef, number int) (Kind, error) {
	var query struct {
		Repository struct {
			IssueOrPullRequest struct {
				Typename string `graphql:"__typename"`
			} `graphql:"issueOrPullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(ref.Owner),
		"name":   githubv4.String(ref.Name),
		"number": githubv4.Int(int32(number)), // #nosec G115 - issue numbers fit in int32
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return "", c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}

	switch query.Repository.IssueOrPullRequest.Typename {
	case "PullRequest":
		return KindPullRequest, nil
	case "Issue":
		return KindIssue, nil
	default:
		return "", fmt.Errorf("unexpected type %q for %s#%d: %w",
			query.Repository.IssueOrPullRequest.Typename, ref, number, relaierrors.ErrBadResponse)
	}
}

// FetchItem retrieves metadata and the complete conversation for an issue or
// pull request. Comment threads longer than one page are drained with
// follow-up comment queries.
func (c *GraphQLClient) FetchItem(ctx context.Context, ref RepoRef, number int, kind Kind) (*Item, error) {
	switch kind {
	case KindPullRequest:
		return c.fetchPullRequest(ctx, ref, number)
	case KindIssue:
		return c.fetchIssue(ctx, ref, number)
	default:
		return nil, fmt.Errorf("cannot fetch kind %q by number: %w", kind, relaierrors.ErrBadResponse)
	}
}

func (c *GraphQLClient) fetchIssue(ctx context.Context, ref RepoRef, number int) (*Item, error) {
	var query struct {
		Repository struct {
			Issue struct {
				Number    githubv4.Int
				Title     githubv4.String
				Body      githubv4.String
				State     githubv4.String
				CreatedAt githubv4.DateTime
				ClosedAt  *githubv4.DateTime
				Author    struct {
					Login githubv4.String
				}
				Milestone *struct {
					Title githubv4.String
				}
				Labels struct {
					Nodes []struct {
						Name githubv4.String
					}
				} `graphql:"labels(first: 100)"`
				Assignees struct {
					Nodes []struct {
						Login githubv4.String
					}
				} `graphql:"assignees(first: 100)"`
				Comments commentPage `graphql:"comments(first: 100)"`
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(ref.Owner),
		"name":   githubv4.String(ref.Name),
		"number": githubv4.Int(int32(number)), // #nosec G115
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}

	issue := query.Repository.Issue
	item := &Item{
		Kind:      KindIssue,
		Number:    int(issue.Number),
		Title:     string(issue.Title),
		Author:    string(issue.Author.Login),
		State:     string(issue.State),
		Body:      string(issue.Body),
		CreatedAt: issue.CreatedAt.Time,
	}
	if issue.ClosedAt != nil {
		t := issue.ClosedAt.Time
		item.ClosedAt = &t
	}
	if issue.Milestone != nil {
		item.Milestone = string(issue.Milestone.Title)
	}
	for _, label := range issue.Labels.Nodes {
		item.Labels = append(item.Labels, string(label.Name))
	}
	for _, assignee := range issue.Assignees.Nodes {
		item.Assignees = append(item.Assignees, string(assignee.Login))
	}

	comments := make([]Comment, 0, len(issue.Comments.Nodes))
	for _, node := range issue.Comments.Nodes {
		comments = append(comments, node.toComment())
	}
	item.Comments = comments

	if issue.Comments.PageInfo.HasNextPage {
		rest, err := c.drainComments(ctx, ref, number, string(issue.Comments.PageInfo.EndCursor))
		if err != nil {
			return nil, err
		}
		item.Comments = append(item.Comments, rest...)
	}

	return item, nil
}

func (c *GraphQLClient) fetchPullRequest(ctx context.Context, ref RepoRef, number int) (*Item, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				Number       githubv4.Int
				Title        githubv4.String
				Body         githubv4.String
				State        githubv4.String
				CreatedAt    githubv4.DateTime
				ClosedAt     *githubv4.DateTime
				Merged       githubv4.Boolean
				MergedAt     *githubv4.DateTime
				Additions    githubv4.Int
				Deletions    githubv4.Int
				ChangedFiles githubv4.Int
				Author       struct {
					Login githubv4.String
				}
				MergedBy *struct {
					Login githubv4.String
				}
				Milestone *struct {
					Title githubv4.String
				}
				Labels struct {
					Nodes []struct {
						Name githubv4.String
					}
				} `graphql:"labels(first: 100)"`
				Assignees struct {
					Nodes []struct {
						Login githubv4.String
					}
				} `graphql:"assignees(first: 100)"`
				Comments commentPage `graphql:"comments(first: 100)"`
				Reviews  reviewPage  `graphql:"reviews(first: 50)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(ref.Owner),
		"name":   githubv4.String(ref.Name),
		"number": githubv4.Int(int32(number)), // #nosec G115
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, ref, fmt.Sprintf("#%d", number))
	}

	pr := query.Repository.PullRequest
	item := &Item{
		Kind:         KindPullRequest,
		Number:       int(pr.Number),
		Title:        string(pr.Title),
		Author:       string(pr.Author.Login),
		State:        string(pr.State),
		Body:         string(pr.Body),
		CreatedAt:    pr.CreatedAt.Time,
		Merged:       bool(pr.Merged),
		Additions:    int(pr.Additions),
		Deletions:    int(pr.Deletions),
		ChangedFiles: int(pr.ChangedFiles),
	}
	if pr.ClosedAt != nil {
		t := pr.ClosedAt.Time
		item.ClosedAt = &t
	}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		item.MergedAt = &t
	}
	if pr.MergedBy != nil {
		item.MergedBy = string(pr.MergedBy.Login)
	}
	if pr.Milestone != nil {
		item.Milestone = string(pr.Milestone.Title)
	}
	for _, label := range pr.Labels.Nodes {
		item.Labels = append(item.Labels, string(label.Name))
	}
	for _, assignee := range pr.Assignees.Nodes {
		item.Assignees = append(item.Assignees, string(assignee.Login))
	}

	comments := make([]Comment, 0, len(pr.Comments.Nodes))
	for _, node := range pr.Comments.Nodes {
		comments = append(comments, node.toComment())
	}
	item.Comments = comments

	if pr.Comments.PageInfo.HasNextPage {
		rest, err := c.drainComments(ctx, ref, number, string(pr.Comments.PageInfo.EndCursor))
		if err != nil {
			return nil, err
		}
		item.Comments = append(item.Comments, rest...)
	}

	for _, review := range pr.Reviews.Nodes {
		appendReview(item, review)
	}

	if pr.Reviews.PageInfo.HasNextPage {
		if err := c.drainReviews(ctx, ref, number, string(pr.Reviews.PageInfo.EndCursor), item); err != nil {
			return nil, err
		}
	}

	return item, nil
}

// drainReviews fetches the remaining review pages after the first.
func (c *GraphQLClient) drainReviews(ctx context.Context, ref RepoRef, number int, cursor string, item *Item) error {
	for cursor != "" {
		var query struct {
			Repository struct {
				PullRequest struct {
					Reviews reviewPage `graphql:"reviews(first: 50, after: $after)"`
				} `graphql:"pullRequest(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}

		variables := map[string]interface{}{
			"owner":  githubv4.String(ref.Owner),
			"name":   githubv4.String(ref.Name),
			"number": githubv4.Int(int32(number)), // #nosec G115
			"after":  githubv4.NewString(githubv4.String(cursor)),
		}

		if err := c.client.Query(ctx, &query, variables); err != nil {
			return c.mapError(err, ref, fmt.Sprintf("#%d reviews", number))
		}

		reviews := query.Repository.PullRequest.Reviews
		for _, review := range reviews.Nodes {
			appendReview(item, review)
		}

		if !reviews.PageInfo.HasNextPage {
			return nil
		}
		cursor = string(reviews.PageInfo.EndCursor)
	}
	return nil
}

// FetchComments retrieves the discussion comments for an issue or pull
// request. The issueOrPullRequest union serves both kinds with one query
// shape.
func (c *GraphQLClient) FetchComments(ctx context.Context, ref RepoRef, number int) ([]Comment, error) {
	comments := []Comment{}

	page, cursor, err := c.fetchCommentPage(ctx, ref, number, nil)
	if err != nil {
		return nil, err
	}
	comments = append(comments, page...)

	for cursor != "" {
		page, cursor, err = c.fetchCommentPage(ctx, ref, number, githubv4.NewString(githubv4.String(cursor)))
		if err != nil {
			return nil, err
		}
		comments = append(comments, page...)
	}

	return comments, nil
}

// drainComments fetches the remaining comment pages after the first.
func (c *GraphQLClient) drainComments(ctx context.Context, ref RepoRef, number int, cursor string) ([]Comment, error) {
	var comments []Comment

	for cursor != "" {
		page, next, err := c.fetchCommentPage(ctx, ref, number, githubv4.NewString(githubv4.String(cursor)))
		if err != nil {
			return nil, err
		}
		comments = append(comments, page...)
		cursor = next
	}

	return comments, nil
}

func (c *GraphQLClient) fetchCommentPage(ctx context.Context, ref RepoRef, number int, after *githubv4.String) ([]Comment, string, error) {
	var query struct {
		Repository struct {
			IssueOrPullRequest struct {
				Issue struct {
					Comments commentPage `graphql:"comments(first: 100, after: $after)"`
				} `graphql:"... on Issue"`
				PullRequest struct {
					Comments commentPage `graphql:"comments(first: 100, after: $after)"`
				} `graphql:"... on PullRequest"`
				Typename string `graphql:"__typename"`
			} `graphql:"issueOrPullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(ref.Owner),
		"name":   githubv4.String(ref.Name),
		"number": githubv4.Int(int32(number)), // #nosec G115
		"after":  after,
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, "", c.mapError(err, ref, fmt.Sprintf("#%d comments", number))
	}

	page := query.Repository.IssueOrPullRequest.Issue.Comments
	if query.Repository.IssueOrPullRequest.Typename == "PullRequest" {
		page = query.Repository.IssueOrPullRequest.PullRequest.Comments
	}

	comments := make([]Comment, 0, len(page.Nodes))
	for _, node := range page.Nodes {
		comments = append(comments, node.toComment())
	}

	next := ""
	if page.PageInfo.HasNextPage {
		next = string(page.PageInfo.EndCursor)
	}
	return comments, next, nil
}

// FetchDiff delegates to REST: the GraphQL API does not serve raw diffs.
func (c *GraphQLClient) FetchDiff(ctx context.Context, ref RepoRef, number int) (string, error) {
	return c.rest.FetchDiff(ctx, ref, number)
}

// FetchCommit delegates to REST: per-file patch text is REST-only.
func (c *GraphQLClient) FetchCommit(ctx context.Context, ref RepoRef, sha string) (*Item, error) {
	return c.rest.FetchCommit(ctx, ref, sha)
}

// mapError maps GraphQL errors to our domain errors with actionable messages.
// Rate limit is checked before auth: GitHub reports both as 403.
func (c *GraphQLClient) mapError(err error, ref RepoRef, what string) error {
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
