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

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-context/internal/github"
)

func TestIssueWithComments(t *testing.T) {
	item := &github.Item{
		Kind:      github.KindIssue,
		Number:    42,
		Title:     "Parser mishandles empty input",
		Author:    "alice",
		State:     "open",
		Body:      "Feeding an empty file makes the parser panic.",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Comments: []github.Comment{
			{Author: "alice", Body: "looks good"},
			{Author: "bob", Body: "ship it"},
		},
	}

	got := Item("octo/demo", item, "", Options{})

	for _, want := range []string{
		"### GitHub Issue Analysis ###",
		"Repository: octo/demo",
		"Issue Number: #42",
		"Title: Parser mishandles empty input",
		"alice: looks good",
		"bob: ship it",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, got)
		}
	}

	// Comments keep API order.
	first := strings.Index(got, "alice: looks good")
	second := strings.Index(got, "bob: ship it")
	if first < 0 || second < 0 || second < first {
		t.Errorf("comments out of order: alice at %d, bob at %d", first, second)
	}

	// Issues never carry a diff section.
	if strings.Contains(got, "### Diff ###") {
		t.Error("issue output must not contain a diff section")
	}
}

func TestPullRequestWithDiffAndNoComments(t *testing.T) {
	diff := "--- a/x.py\n+++ b/x.py\n@@...\n"
	item := &github.Item{
		Kind:   github.KindPullRequest,
		Number: 7,
		Title:  "Guard against empty input",
		Author: "bob",
		State:  "open",
	}

	got := Item("octo/demo", item, diff, Options{})

	if !strings.Contains(got, "### GitHub Pull Request Analysis ###") {
		t.Error("missing PR header")
	}
	if !strings.Contains(got, "PR Number: #7") {
		t.Error("missing PR number")
	}
	if !strings.Contains(got, diff) {
		t.Errorf("diff not rendered verbatim\noutput:\n%s", got)
	}
	if !strings.Contains(got, "[no comments]") {
		t.Error("expected [no comments] marker for empty conversation")
	}
	if strings.Contains(got, ": ship it") {
		t.Error("unexpected comment entry")
	}
}

func TestRenderIdempotent(t *testing.T) {
	item := &github.Item{
		Kind:   github.KindIssue,
		Number: 42,
		Title:  "Stable output",
		Author: "alice",
		State:  "closed",
		Comments: []github.Comment{
			{Author: "alice", Body: "looks good"},
		},
	}

	a := Item("octo/demo", item, "", Options{})
	b := Item("octo/demo", item, "", Options{})
	if a != b {
		t.Error("repeated renders of the same input differ")
	}
}

func TestPullRequestMergedHeader(t *testing.T) {
	mergedAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	item := &github.Item{
		Kind:     github.KindPullRequest,
		Number:   12,
		Title:    "Add retry budget",
		Author:   "carol",
		State:    "closed",
		Merged:   true,
		MergedAt: &mergedAt,
		MergedBy: "dave",
		Labels:   []string{"bug", "backport"},
	}

	got := Item("octo/demo", item, "", Options{})

	if !strings.Contains(got, "Merged At: 2024-05-02 09:30:00 UTC by dave") {
		t.Errorf("missing merged line\noutput:\n%s", got)
	}
	if !strings.Contains(got, "Labels: bug, backport") {
		t.Error("missing labels line")
	}
}

func TestPullRequestReviewSections(t *testing.T) {
	submitted := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	item := &github.Item{
		Kind:   github.KindPullRequest,
		Number: 9,
		Title:  "Refactor config loading",
		Author: "erin",
		State:  "open",
		ReviewComments: []github.ReviewComment{
			{
				Comment: github.Comment{Author: "frank", Body: "nit: rename this"},
				Path:    "config.go",
				Line:    12,
			},
		},
		Reviews: []github.Review{
			{Author: "frank", State: "APPROVED", Body: "LGTM", SubmittedAt: &submitted},
			// Body-less COMMENTED reviews duplicate inline comments; dropped.
			{Author: "grace", State: "COMMENTED", Body: ""},
		},
	}

	got := Item("octo/demo", item, "", Options{})

	if !strings.Contains(got, "frank (config.go line 12): nit: rename this") {
		t.Errorf("missing inline review comment\noutput:\n%s", got)
	}
	if !strings.Contains(got, "frank [APPROVED]: LGTM") {
		t.Error("missing review entry")
	}
	if strings.Contains(got, "grace") {
		t.Error("body-less COMMENTED review should be dropped")
	}
}

func TestDiffLineLimit(t *testing.T) {
	diff := strings.Repeat("+added line\n", 20)
	item := &github.Item{
		Kind:   github.KindPullRequest,
		Number: 3,
		Title:  "Big change",
		Author: "alice",
		State:  "open",
	}

	got := Item("octo/demo", item, diff, Options{MaxDiffLines: 10})
	if strings.Contains(got, "+added line") {
		t.Error("oversized diff should be skipped entirely")
	}
	if !strings.Contains(got, "[Diff skipped: exceeds line limit (21 > 10 lines)]") {
		t.Errorf("missing skip notice\noutput:\n%s", got)
	}

	// Unlimited includes the diff whole.
	got = Item("octo/demo", item, diff, Options{})
	if !strings.Contains(got, diff) {
		t.Error("unlimited render should include the diff verbatim")
	}
}

func TestCommitRendering(t *testing.T) {
	item := &github.Item{
		Kind:      github.KindCommit,
		SHA:       "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		Title:     "Fix flaky watcher test",
		Body:      "Fix flaky watcher test\n\nThe timer fired before the fake clock advanced.",
		Author:    "alice",
		CreatedAt: time.Date(2024, 7, 4, 16, 20, 0, 0, time.UTC),
		Files: []github.FileChange{
			{
				Filename:  "watcher_test.go",
				Status:    "modified",
				Additions: 4,
				Deletions: 2,
				Patch:     "@@ -10,2 +10,4 @@\n-old\n+new",
			},
			{
				Filename:  "huge_generated.go",
				Status:    "modified",
				Additions: 600,
				Deletions: 200,
				Patch:     "@@ massive @@",
			},
			{
				Filename: "image.png",
				Status:   "added",
			},
		},
	}

	got := Item("octo/demo", item, "", Options{MaxDiffLines: 500})

	for _, want := range []string{
		"### GitHub Commit Analysis ###",
		"SHA: a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		"--- File 1/3: watcher_test.go ---",
		"Changes: +4 / -2",
		"@@ -10,2 +10,4 @@",
		"[Diff skipped: exceeds line limit (800 > 500 lines)]",
		"[No diff available or applicable]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, got)
		}
	}
	if strings.Contains(got, "@@ massive @@") {
		t.Error("oversized file patch should be skipped")
	}
}

func TestEmptyBodyPlaceholders(t *testing.T) {
	issue := &github.Item{Kind: github.KindIssue, Number: 1, Title: "t", Author: "a", State: "open"}
	if got := Item("octo/demo", issue, "", Options{}); !strings.Contains(got, "[No description provided]") {
		t.Error("missing empty body placeholder for issue")
	}

	commit := &github.Item{Kind: github.KindCommit, SHA: "abcdef1", Author: "a"}
	if got := Item("octo/demo", commit, "", Options{}); !strings.Contains(got, "[No commit message]") {
		t.Error("missing empty message placeholder for commit")
	}
}
