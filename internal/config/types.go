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

package config

import "time"

// Config holds all configuration for sirseer-context.
type Config struct {
	// APIBaseURL overrides the GitHub REST endpoint, for GitHub Enterprise
	// deployments. Empty means https://api.github.com.
	APIBaseURL string `yaml:"api_base_url"`

	// GraphQLURL overrides the GitHub GraphQL endpoint used with --graphql.
	// Empty means https://api.github.com/graphql.
	GraphQLURL string `yaml:"graphql_url"`

	// TimeoutSeconds bounds each run's API calls. Requests past the
	// deadline fail as network errors; they are never retried.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxDiffLines caps diff lines included per item; zero means unlimited.
	MaxDiffLines int `yaml:"max_diff_lines"`

	// Output controls per-item file output.
	Output OutputConfig `yaml:"output"`
}

// OutputConfig controls the --output-dir file mode.
type OutputConfig struct {
	// Prefix is the per-item file name prefix.
	Prefix string `yaml:"prefix"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: 30,
		Output: OutputConfig{
			Prefix: "item",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
