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

// Package render turns fetched items into plain text blocks for language
// model consumption. Rendering is pure string assembly: deterministic,
// byte-identical for identical input, no I/O, no failure modes.
package render

import (
	"fmt"
	"strings"

	"github.com/sirseerhq/sirseer-context/internal/github"
)

// Options controls rendering behavior.
type Options struct {
	// MaxDiffLines caps the number of diff lines included per item.
	// Zero means unlimited. When a pull request diff exceeds the cap, the
	// diff section carries a skip notice instead of the diff. Commit file
	// patches are capped per file, using the additions+deletions count.
	MaxDiffLines int
}

const sectionRule = "\n---\n"

// timeLayout matches GitHub's timestamp display granularity.
const timeLayout = "2006-01-02 15:04:05 MST"

// Item renders one fetched item as a text block. diff is the raw unified
// diff for pull requests; it is ignored for other kinds.
func Item(repo string, item *github.Item, diff string, opts Options) string {
	switch item.Kind {
	case github.KindPullRequest:
		return pullRequest(repo, item, diff, opts)
	case github.KindCommit:
		return commit(repo, item, opts)
	default:
		return issue(repo, item)
	}
}

func issue(repo string, item *github.Item) string {
	var b strings.Builder

	b.WriteString("### GitHub Issue Analysis ###\n")
	fmt.Fprintf(&b, "Repository: %s\n", repo)
	fmt.Fprintf(&b, "Issue Number: #%d\n", item.Number)
	header(&b, item)

	b.WriteString(sectionRule)
	b.WriteString("\n### Issue Description ###\n")
	writeBody(&b, item.Body)

	b.WriteString(sectionRule)
	b.WriteString("\n### Conversation History ###\n\n")
	writeComments(&b, item.Comments)

	b.WriteString(sectionRule)
	b.WriteString("\n### End of Issue Analysis ###\n")
	return b.String()
}

func pullRequest(repo string, item *github.Item, diff string, opts Options) string {
	var b strings.Builder

	b.WriteString("### GitHub Pull Request Analysis ###\n")
	fmt.Fprintf(&b, "Repository: %s\n", repo)
	fmt.Fprintf(&b, "PR Number: #%d\n", item.Number)
	header(&b, item)
	fmt.Fprintf(&b, "Changed Files: %d\n", item.ChangedFiles)
	fmt.Fprintf(&b, "Additions: %d\n", item.Additions)
	fmt.Fprintf(&b, "Deletions: %d\n", item.Deletions)

	b.WriteString(sectionRule)
	b.WriteString("\n### PR Description ###\n")
	writeBody(&b, item.Body)

	b.WriteString(sectionRule)
	b.WriteString("\n### Conversation History ###\n\n")
	writeComments(&b, item.Comments)

	if len(item.ReviewComments) > 0 {
		b.WriteString("\n--- Review Comments (Inline) ---\n\n")
		for i, rc := range item.ReviewComments {
			if i > 0 {
				b.WriteString("\n")
			}
			where := rc.Path
			if rc.Line > 0 {
				where = fmt.Sprintf("%s line %d", rc.Path, rc.Line)
			}
			fmt.Fprintf(&b, "%s (%s): %s\n", rc.Author, where, rc.Body)
		}
	}

	if reviews := substantiveReviews(item.Reviews); len(reviews) > 0 {
		b.WriteString("\n--- Reviews ---\n\n")
		for i, review := range reviews {
			if i > 0 {
				b.WriteString("\n")
			}
			if review.Body == "" {
				fmt.Fprintf(&b, "%s [%s]\n", review.Author, review.State)
				continue
			}
			fmt.Fprintf(&b, "%s [%s]: %s\n", review.Author, review.State, review.Body)
		}
	}

	b.WriteString(sectionRule)
	b.WriteString("\n### Diff ###\n")
	writeDiff(&b, diff, opts.MaxDiffLines)

	b.WriteString(sectionRule)
	b.WriteString("\n### End of Pull Request Analysis ###\n")
	return b.String()
}

func commit(repo string, item *github.Item, opts Options) string {
	var b strings.Builder

	b.WriteString("### GitHub Commit Analysis ###\n")
	fmt.Fprintf(&b, "Repository: %s\n", repo)
	fmt.Fprintf(&b, "SHA: %s\n", item.SHA)
	fmt.Fprintf(&b, "Author: %s\n", item.Author)
	if !item.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", item.CreatedAt.UTC().Format(timeLayout))
	}

	b.WriteString(sectionRule)
	b.WriteString("\n### Commit Message ###\n")
	if item.Body == "" {
		b.WriteString("[No commit message]\n")
	} else {
		b.WriteString(item.Body)
		b.WriteString("\n")
	}

	b.WriteString(sectionRule)
	b.WriteString("\n### File Changes ###\n\n")
	if len(item.Files) == 0 {
		b.WriteString("[No files changed in this commit]\n")
	}
	for i, file := range item.Files {
		fmt.Fprintf(&b, "--- File %d/%d: %s ---\n", i+1, len(item.Files), file.Filename)
		fmt.Fprintf(&b, "Status: %s\n", file.Status)
		fmt.Fprintf(&b, "Changes: +%d / -%d\n", file.Additions, file.Deletions)

		total := file.Additions + file.Deletions
		switch {
		case opts.MaxDiffLines > 0 && total > opts.MaxDiffLines:
			fmt.Fprintf(&b, "[Diff skipped: exceeds line limit (%d > %d lines)]\n", total, opts.MaxDiffLines)
		case file.Patch != "":
			b.WriteString("```diff\n")
			b.WriteString(file.Patch)
			b.WriteString("\n```\n")
		default:
			b.WriteString("[No diff available or applicable]\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionRule)
	b.WriteString("\n### End of Commit Analysis ###\n")
	return b.String()
}

// header writes the metadata lines shared by issues and pull requests.
func header(b *strings.Builder, item *github.Item) {
	fmt.Fprintf(b, "Title: %s\n", item.Title)
	fmt.Fprintf(b, "Author: %s\n", item.Author)
	fmt.Fprintf(b, "State: %s\n", item.State)
	if !item.CreatedAt.IsZero() {
		fmt.Fprintf(b, "Created At: %s\n", item.CreatedAt.UTC().Format(timeLayout))
	}
	switch {
	case item.Merged && item.MergedAt != nil:
		by := item.MergedBy
		if by == "" {
			by = "unknown"
		}
		fmt.Fprintf(b, "Merged At: %s by %s\n", item.MergedAt.UTC().Format(timeLayout), by)
	case item.ClosedAt != nil:
		fmt.Fprintf(b, "Closed At: %s\n", item.ClosedAt.UTC().Format(timeLayout))
	}
	if len(item.Labels) > 0 {
		fmt.Fprintf(b, "Labels: %s\n", strings.Join(item.Labels, ", "))
	}
	if len(item.Assignees) > 0 {
		fmt.Fprintf(b, "Assignees: %s\n", strings.Join(item.Assignees, ", "))
	}
	if item.Milestone != "" {
		fmt.Fprintf(b, "Milestone: %s\n", item.Milestone)
	}
}

func writeBody(b *strings.Builder, body string) {
	if body == "" {
		b.WriteString("[No description provided]\n")
		return
	}
	b.WriteString(body)
	b.WriteString("\n")
}

// writeComments writes one "author: body" entry per comment, blank-line
// separated, preserving API (chronological) order.
func writeComments(b *strings.Builder, comments []github.Comment) {
	if len(comments) == 0 {
		b.WriteString("[no comments]\n")
		return
	}
	for i, comment := range comments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "%s: %s\n", comment.Author, comment.Body)
	}
}

func writeDiff(b *strings.Builder, diff string, maxLines int) {
	if strings.TrimSpace(diff) == "" {
		b.WriteString("[Empty diff]\n")
		return
	}
	if maxLines > 0 {
		if lines := strings.Count(diff, "\n") + 1; lines > maxLines {
			fmt.Fprintf(b, "[Diff skipped: exceeds line limit (%d > %d lines)]\n", lines, maxLines)
			return
		}
	}
	b.WriteString(diff)
	if !strings.HasSuffix(diff, "\n") {
		b.WriteString("\n")
	}
}

// substantiveReviews filters out body-less COMMENTED reviews, whose content
// already appears as inline comments.
func substantiveReviews(reviews []github.Review) []github.Review {
	out := make([]github.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.Body == "" && review.State == "COMMENTED" {
			continue
		}
		out = append(out, review)
	}
	return out
}
