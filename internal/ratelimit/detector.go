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

// Package ratelimit detects exhausted GitHub API rate limits from HTTP
// response headers. The tool never waits out a rate limit; detection exists
// so an exhausted quota surfaces as a distinct, actionable error instead of
// a generic 403.
package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Info describes a detected rate limit condition.
type Info struct {
	// Limit is the total request quota for the current window.
	Limit int
	// Reset is when the quota replenishes.
	Reset time.Time
}

// Detector inspects HTTP responses for GitHub rate limit headers.
type Detector struct{}

// NewDetector creates a new rate limit Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsRateLimited reports whether the response indicates an exhausted rate
// limit: a 403 or 429 status with X-RateLimit-Remaining at zero, or a
// Retry-After header (secondary limits).
func (d *Detector) IsRateLimited(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	return remaining == "0"
}

// Detect extracts rate limit details from the response headers.
// Zero values are returned for headers that are missing or malformed.
func (d *Detector) Detect(resp *http.Response) Info {
	var info Info
	if resp == nil {
		return info
	}
	if limit, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit")); err == nil {
		info.Limit = limit
	}
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		info.Reset = time.Unix(reset, 0)
	}
	return info
}
