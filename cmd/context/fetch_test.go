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

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
	"github.com/sirseerhq/sirseer-context/internal/github"
	"github.com/sirseerhq/sirseer-context/internal/logging"
	"github.com/sirseerhq/sirseer-context/internal/output"
	"github.com/sirseerhq/sirseer-context/internal/render"
)

// chdir changes the working directory for the duration of the test.
// testing.T.Chdir requires Go 1.24; this keeps the tests on Go 1.21.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	})
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "valid repository",
			input:     "octo/demo",
			wantOwner: "octo",
			wantName:  "demo",
		},
		{
			name:      "repository with dashes",
			input:     "sirseerhq/sirseer-context",
			wantOwner: "sirseerhq",
			wantName:  "sirseer-context",
		},
		{
			name:    "missing slash",
			input:   "octodemo",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "octo/demo/extra",
			wantErr: true,
		},
		{
			name:    "empty owner",
			input:   "/demo",
			wantErr: true,
		},
		{
			name:    "empty name",
			input:   "octo/",
			wantErr: true,
		},
		{
			name:    "whitespace only owner",
			input:   "  /demo",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := parseRepository(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseRepository(%q) expected error, got %+v", tt.input, ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRepository(%q) unexpected error: %v", tt.input, err)
			}
			if ref.Owner != tt.wantOwner || ref.Name != tt.wantName {
				t.Errorf("parseRepository(%q) = %s/%s, want %s/%s",
					tt.input, ref.Owner, ref.Name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []itemRef
		wantErr bool
	}{
		{
			name: "single number",
			args: []string{"42"},
			want: []itemRef{{number: 42}},
		},
		{
			name: "numbers and sha",
			args: []string{"42", "7", "a1b2c3d"},
			want: []itemRef{{number: 42}, {number: 7}, {sha: "a1b2c3d"}},
		},
		{
			name: "full sha",
			args: []string{"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"},
			want: []itemRef{{sha: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"}},
		},
		{
			name:    "zero number",
			args:    []string{"0"},
			wantErr: true,
		},
		{
			name:    "negative number",
			args:    []string{"-5"},
			wantErr: true,
		},
		{
			name:    "short hex is not a sha",
			args:    []string{"abc123"},
			wantErr: true,
		},
		{
			name:    "non-hex garbage",
			args:    []string{"not-an-item"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseItems(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseItems(%v) expected error, got %+v", tt.args, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseItems(%v) unexpected error: %v", tt.args, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseItems(%v) = %d items, want %d", tt.args, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsCommitSHA(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a1b2c3d", true},
		{"A1B2C3D", true},
		{"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", true},
		{"abc12", false},                 // too short
		{"xyz1234", false},               // not hex
		{strings.Repeat("a", 41), false}, // too long
		{"", false},
	}

	for _, tt := range tests {
		if got := isCommitSHA(tt.input); got != tt.want {
			t.Errorf("isCommitSHA(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShortSHA(t *testing.T) {
	if got := shortSHA("a1b2c3d4e5f6"); got != "a1b2c3d" {
		t.Errorf("shortSHA = %q, want a1b2c3d", got)
	}
	if got := shortSHA("abc"); got != "abc" {
		t.Errorf("shortSHA should not pad short input, got %q", got)
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"invalid token", relaierrors.ErrInvalidToken, 2},
		{"item not found", relaierrors.ErrItemNotFound, 2},
		{"rate limit", relaierrors.ErrRateLimit, 2},
		{"network failure", relaierrors.ErrNetworkFailure, 3},
		{"wrapped network failure", fmt.Errorf("2 of 3 items failed: %w", relaierrors.ErrNetworkFailure), 3},
		{"generic error", errors.New("something broke"), 1},
		{"bad response", relaierrors.ErrBadResponse, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestProcessItemsContinuesAfterFailure(t *testing.T) {
	mock := github.NewMockClient()
	mock.Diffs[7] = "--- a/x.py\n+++ b/x.py\n@@...\n"

	var buf bytes.Buffer
	writer := output.NewTextWriter(&buf)
	logger := logging.NewLogger(&bytes.Buffer{}, logging.LevelError)
	ref := github.RepoRef{Owner: "octo", Name: "demo"}

	items := []itemRef{{number: 42}, {number: 999}, {number: 7}}
	failed, firstErr := processItems(context.Background(), mock, ref, items, writer, render.Options{}, logger)
	writer.Close()

	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if !errors.Is(firstErr, relaierrors.ErrItemNotFound) {
		t.Errorf("firstErr = %v, want ErrItemNotFound", firstErr)
	}

	got := buf.String()
	if !strings.Contains(got, "Issue Number: #42") {
		t.Error("issue 42 missing from output")
	}
	if !strings.Contains(got, "PR Number: #7") {
		t.Error("PR 7 should still be fetched after the failing item")
	}
	if !strings.Contains(got, "alice: looks good") || !strings.Contains(got, "bob: ship it") {
		t.Error("issue comments missing from output")
	}
	if writer.Count() != 2 {
		t.Errorf("wrote %d items, want 2", writer.Count())
	}
}

func TestProcessItemsDiffOnlyForPullRequests(t *testing.T) {
	mock := github.NewMockClient()
	mock.Diffs[7] = "--- a/x.py\n+++ b/x.py\n"

	var buf bytes.Buffer
	writer := output.NewTextWriter(&buf)
	logger := logging.NewLogger(&bytes.Buffer{}, logging.LevelError)
	ref := github.RepoRef{Owner: "octo", Name: "demo"}

	if failed, err := processItems(context.Background(), mock, ref, []itemRef{{number: 42}}, writer, render.Options{}, logger); failed != 0 {
		t.Fatalf("issue fetch failed: %v", err)
	}
	if len(mock.DiffCalls) != 0 {
		t.Errorf("FetchDiff called for an issue: %v", mock.DiffCalls)
	}

	if failed, err := processItems(context.Background(), mock, ref, []itemRef{{number: 7}}, writer, render.Options{}, logger); failed != 0 {
		t.Fatalf("PR fetch failed: %v", err)
	}
	if len(mock.DiffCalls) != 1 || mock.DiffCalls[0] != 7 {
		t.Errorf("DiffCalls = %v, want [7]", mock.DiffCalls)
	}
}

func TestProcessItemsCommit(t *testing.T) {
	mock := github.NewMockClient()
	sha := "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"
	mock.Commits[sha] = &github.Item{
		Kind:   github.KindCommit,
		SHA:    sha,
		Title:  "Fix flaky watcher test",
		Body:   "Fix flaky watcher test",
		Author: "alice",
	}

	var buf bytes.Buffer
	writer := output.NewTextWriter(&buf)
	logger := logging.NewLogger(&bytes.Buffer{}, logging.LevelError)
	ref := github.RepoRef{Owner: "octo", Name: "demo"}

	failed, err := processItems(context.Background(), mock, ref, []itemRef{{sha: sha}}, writer, render.Options{}, logger)
	if failed != 0 {
		t.Fatalf("commit fetch failed: %v", err)
	}
	if mock.LastSHA != sha {
		t.Errorf("LastSHA = %q, want %q", mock.LastSHA, sha)
	}
	if !strings.Contains(buf.String(), "### GitHub Commit Analysis ###") {
		t.Error("commit output missing")
	}
}

func TestRunFetchRequiresCredentials(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	var stdout, stderr bytes.Buffer
	err := runFetch(context.Background(), fetchOptions{
		repoArg:  "octo/demo",
		itemArgs: []string{"42"},
		logLevel: "error",
		stdout:   &stdout,
		stderr:   &stderr,
	})
	if !errors.Is(err, relaierrors.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("no output expected before the credential check, got %q", stdout.String())
	}
}

func TestRunFetchRejectsBadArgsBeforeNetwork(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "ghp_dummy")

	var stdout, stderr bytes.Buffer
	err := runFetch(context.Background(), fetchOptions{
		repoArg:  "not-a-repo",
		itemArgs: []string{"42"},
		logLevel: "error",
		stdout:   &stdout,
		stderr:   &stderr,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid repository format") {
		t.Fatalf("err = %v, want invalid repository format", err)
	}

	err = runFetch(context.Background(), fetchOptions{
		repoArg:  "octo/demo",
		itemArgs: []string{"nonsense"},
		logLevel: "error",
		stdout:   &stdout,
		stderr:   &stderr,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid item") {
		t.Fatalf("err = %v, want invalid item", err)
	}
}
