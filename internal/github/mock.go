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
	"time"

	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Items keyed by number; Commits keyed by SHA; Diffs keyed by PR number.
	Items   map[int]*Item
	Commits map[string]*Item
	Diffs   map[int]string

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount  int
	DiffCalls  []int
	LastRef    RepoRef
	LastNumber int
	LastSHA    string
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Items:   generateTestItems(),
		Commits: map[string]*Item{},
		Diffs:   map[int]string{},
	}
}

func (m *MockClient) check(ctx context.Context, ref RepoRef) error {
	m.CallCount++
	m.LastRef = ref

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}
	return m.Error
}

// Resolve implements the Client interface.
func (m *MockClient) Resolve(ctx context.Context, ref RepoRef, number int) (Kind, error) {
	if err := m.check(ctx, ref); err != nil {
		return "", err
	}
	m.LastNumber = number

	item, ok := m.Items[number]
	if !ok {
		return "", fmt.Errorf("#%d not found in %s: %w", number, ref, relaierrors.ErrItemNotFound)
	}
	return item.Kind, nil
}

// FetchItem implements the Client interface.
func (m *MockClient) FetchItem(ctx context.Context, ref RepoRef, number int, kind Kind) (*Item, error) {
	if err := m.check(ctx, ref); err != nil {
		return nil, err
	}
	m.LastNumber = number

	item, ok := m.Items[number]
	if !ok {
		return nil, fmt.Errorf("#%d not found in %s: %w", number, ref, relaierrors.ErrItemNotFound)
	}
	cp := *item
	return &cp, nil
}

// FetchComments implements the Client interface.
func (m *MockClient) FetchComments(ctx context.Context, ref RepoRef, number int) ([]Comment, error) {
	if err := m.check(ctx, ref); err != nil {
		return nil, err
	}

	item, ok := m.Items[number]
	if !ok {
		return nil, fmt.Errorf("#%d not found in %s: %w", number, ref, relaierrors.ErrItemNotFound)
	}
	return item.Comments, nil
}

// FetchDiff implements the Client interface.
func (m *MockClient) FetchDiff(ctx context.Context, ref RepoRef, number int) (string, error) {
	m.DiffCalls = append(m.DiffCalls, number)
	if err := m.check(ctx, ref); err != nil {
		return "", err
	}

	diff, ok := m.Diffs[number]
	if !ok {
		return "", fmt.Errorf("#%d diff not found in %s: %w", number, ref, relaierrors.ErrItemNotFound)
	}
	return diff, nil
}

// FetchCommit implements the Client interface.
func (m *MockClient) FetchCommit(ctx context.Context, ref RepoRef, sha string) (*Item, error) {
	if err := m.check(ctx, ref); err != nil {
		return nil, err
	}
	m.LastSHA = sha

	item, ok := m.Commits[sha]
	if !ok {
		return nil, fmt.Errorf("%s not found in %s: %w", sha, ref, relaierrors.ErrItemNotFound)
	}
	cp := *item
	return &cp, nil
}

// generateTestItems creates sample issue and PR data for testing.
func generateTestItems() map[int]*Item {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	return map[int]*Item{
		42: {
			Kind:      KindIssue,
			Number:    42,
			Title:     "Parser mishandles empty input",
			Author:    "alice",
			State:     "open",
			Body:      "Feeding an empty file makes the parser panic.",
			CreatedAt: lastWeek,
			Comments: []Comment{
				{Author: "alice", Body: "looks good", CreatedAt: yesterday},
				{Author: "bob", Body: "ship it", CreatedAt: now},
			},
		},
		7: {
			Kind:      KindPullRequest,
			Number:    7,
			Title:     "Guard against empty input",
			Author:    "bob",
			State:     "open",
			Body:      "Fixes the empty-input panic.",
			CreatedAt: yesterday,
			Additions: 3,
			Deletions: 1,
		},
	}
}
