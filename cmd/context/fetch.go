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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-context/internal/config"
	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
	"github.com/sirseerhq/sirseer-context/internal/github"
	"github.com/sirseerhq/sirseer-context/internal/logging"
	"github.com/sirseerhq/sirseer-context/internal/output"
	"github.com/sirseerhq/sirseer-context/internal/render"
)

// fetchCmd represents the fetch command
func newFetchCommand() *cobra.Command {
	var (
		token        string
		public       bool
		useGraphQL   bool
		outputDir    string
		prefix       string
		configPath   string
		logLevel     string
		maxDiffLines int
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <owner>/<repo> <item> [<item>...]",
		Short: "Fetch GitHub item context and print it as plain text",
		Long: `Fetch the metadata, conversation, and diff of GitHub items and print
them as plain text blocks in input order.

The repository must be specified in the format: <owner>/<repo>
Each item is an issue number, a pull request number, or a commit SHA.
Numbers are classified as issue or pull request automatically.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable
  - Or pass --public for anonymous access to public repositories

A failing item is reported on stderr and does not stop the remaining
items; the run exits non-zero if any item failed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fetchOptions{
				repoArg:    args[0],
				itemArgs:   args[1:],
				token:      token,
				public:     public,
				useGraphQL: useGraphQL,
				outputDir:  outputDir,
				configPath: configPath,
				logLevel:   logLevel,
				stdout:     cmd.OutOrStdout(),
				stderr:     cmd.ErrOrStderr(),
			}
			if cmd.Flags().Changed("prefix") {
				opts.prefix = &prefix
			}
			if cmd.Flags().Changed("max-diff-lines") {
				opts.maxDiffLines = &maxDiffLines
			}
			if cmd.Flags().Changed("timeout") {
				opts.timeout = &timeout
			}
			return runFetch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().BoolVar(&public, "public", false, "Anonymous access for public repositories (no token required)")
	cmd.Flags().BoolVar(&useGraphQL, "graphql", false, "Fetch issues and PRs via the GraphQL API (diffs and commits always use REST)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write each item to its own file in a timestamped directory under this path (default: stdout)")
	cmd.Flags().StringVar(&prefix, "prefix", "item", "Per-item file name prefix, used with --output-dir")
	cmd.Flags().IntVar(&maxDiffLines, "max-diff-lines", 0, "Skip diffs longer than this many lines (0 = unlimited)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout for the whole run")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}

// fetchOptions carries the parsed command line. Pointer fields distinguish
// flags the user set from flags left at their default, so config file
// values are only overridden explicitly.
type fetchOptions struct {
	repoArg    string
	itemArgs   []string
	token      string
	public     bool
	useGraphQL bool
	outputDir  string
	configPath string
	logLevel   string

	prefix       *string
	maxDiffLines *int
	timeout      *time.Duration

	stdout io.Writer
	stderr io.Writer
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, opts fetchOptions) error {
	// Pick up a local .env before reading the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.prefix != nil {
		cfg.Output.Prefix = *opts.prefix
	}
	if opts.maxDiffLines != nil {
		cfg.MaxDiffLines = *opts.maxDiffLines
	}

	logger := logging.NewLogger(opts.stderr, logging.ParseLevel(opts.logLevel))

	ref, err := parseRepository(opts.repoArg)
	if err != nil {
		return err
	}

	items, err := parseItems(opts.itemArgs)
	if err != nil {
		return err
	}

	// The credential check happens before any network call.
	token := getToken(opts.token)
	if token == "" && !opts.public {
		return fmt.Errorf("GitHub token not found. Set GITHUB_TOKEN, use --token, or pass --public for public repositories: %w",
			relaierrors.ErrInvalidToken)
	}
	if opts.public {
		token = ""
		logger.Info("running in public repository mode, rate limits will be lower")
	}

	var writer output.Writer
	if opts.outputDir == "" {
		out := opts.stdout
		if out == nil {
			out = os.Stdout
		}
		writer = output.NewTextWriter(out)
	} else {
		dirWriter, dErr := output.NewDirWriter(opts.outputDir, cfg.Output.Prefix, time.Now())
		if dErr != nil {
			return dErr
		}
		logger.Info("created output directory", "dir", dirWriter.Dir())
		writer = dirWriter
	}
	defer writer.Close()

	var client github.Client
	if opts.useGraphQL {
		client, err = github.NewGraphQLClient(token, cfg.GraphQLURL, cfg.APIBaseURL)
	} else {
		client, err = github.NewRESTClient(token, cfg.APIBaseURL)
	}
	if err != nil {
		return err
	}

	timeout := cfg.Timeout()
	if opts.timeout != nil {
		timeout = *opts.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	renderOpts := render.Options{MaxDiffLines: cfg.MaxDiffLines}
	failed, firstErr := processItems(ctx, client, ref, items, writer, renderOpts, logger)
	if failed > 0 {
		return fmt.Errorf("%d of %d items failed: %w", failed, len(items), firstErr)
	}
	return nil
}

// processItems fetches and writes each item in input order. A failing item
// is logged and counted; later items still run. Returns the failure count
// and the first failure for exit code mapping.
func processItems(ctx context.Context, client github.Client, ref github.RepoRef, items []itemRef, writer output.Writer, renderOpts render.Options, logger *slog.Logger) (int, error) {
	failed := 0
	var firstErr error

	for _, item := range items {
		if err := fetchOne(ctx, client, ref, item, writer, renderOpts, logger); err != nil {
			logger.Error("failed to fetch item", "repo", ref.String(), "item", item.String(), "error", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return failed, firstErr
}

// fetchOne resolves, fetches, renders, and writes a single item.
func fetchOne(ctx context.Context, client github.Client, ref github.RepoRef, item itemRef, writer output.Writer, renderOpts render.Options, logger *slog.Logger) error {
	if item.sha != "" {
		fetched, err := client.FetchCommit(ctx, ref, item.sha)
		if err != nil {
			return err
		}
		logger.Info("fetched commit", "repo", ref.String(), "sha", shortSHA(fetched.SHA))
		text := render.Item(ref.String(), fetched, "", renderOpts)
		return writer.WriteItem(output.RenderedItem{
			Kind: string(fetched.Kind),
			ID:   shortSHA(fetched.SHA),
			Text: text,
		})
	}

	kind, err := client.Resolve(ctx, ref, item.number)
	if err != nil {
		return err
	}
	logger.Info("resolved item", "repo", ref.String(), "number", item.number, "kind", string(kind))

	fetched, err := client.FetchItem(ctx, ref, item.number, kind)
	if err != nil {
		return err
	}

	var diff string
	if kind == github.KindPullRequest {
		diff, err = client.FetchDiff(ctx, ref, item.number)
		if err != nil {
			return err
		}
	}

	text := render.Item(ref.String(), fetched, diff, renderOpts)
	return writer.WriteItem(output.RenderedItem{
		Kind: string(kind),
		ID:   strconv.Itoa(item.number),
		Text: text,
	})
}

// itemRef is one requested item: an issue/PR number, or a commit SHA.
type itemRef struct {
	number int
	sha    string
}

func (i itemRef) String() string {
	if i.sha != "" {
		return i.sha
	}
	return "#" + strconv.Itoa(i.number)
}

// parseRepository parses an owner/repo string into a repository reference.
func parseRepository(repoArg string) (github.RepoRef, error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return github.RepoRef{}, fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])

	if owner == "" || name == "" {
		return github.RepoRef{}, fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return github.RepoRef{Owner: owner, Name: name}, nil
}

// parseItems classifies each argument as an issue/PR number or a commit SHA.
func parseItems(args []string) ([]itemRef, error) {
	items := make([]itemRef, 0, len(args))
	for _, arg := range args {
		if number, err := strconv.Atoi(arg); err == nil {
			if number <= 0 {
				return nil, fmt.Errorf("invalid item number: %s", arg)
			}
			items = append(items, itemRef{number: number})
			continue
		}
		if !isCommitSHA(arg) {
			return nil, fmt.Errorf("invalid item %q: expected an issue/PR number or a commit SHA", arg)
		}
		items = append(items, itemRef{sha: arg})
	}
	return items, nil
}

// isCommitSHA reports whether s looks like an abbreviated or full commit
// SHA: hex, at least 7 characters, at most 40.
func isCommitSHA(s string) bool {
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// shortSHA abbreviates a commit SHA for file names and log lines.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv("GITHUB_TOKEN")
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrItemNotFound) ||
		errors.Is(err, relaierrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
