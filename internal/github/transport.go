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
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	relaierrors "github.com/sirseerhq/sirseer-context/internal/errors"
	"github.com/sirseerhq/sirseer-context/internal/ratelimit"
	"github.com/sirseerhq/sirseer-context/pkg/version"
)

// maxResponseBytes caps response bodies at 10MB to prevent excessive memory usage.
const maxResponseBytes = 10 * 1024 * 1024

// newHTTPClient builds the HTTP client shared by both API clients. The
// bearer credential rides on an oauth2 static token source; an empty token
// means anonymous access to public repositories. Underneath, apiTransport
// adds the User-Agent, a response size limit, and rate limit detection.
func newHTTPClient(token string) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	base := &http.Client{
		Transport: &apiTransport{
			base:     transport,
			detector: ratelimit.NewDetector(),
		},
	}

	if token == "" {
		return base
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, ts)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// apiTransport adds identification headers and safety limits to HTTP requests.
type apiTransport struct {
	base     http.RoundTripper
	detector *ratelimit.Detector
}

// RoundTrip implements http.RoundTripper
func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("User-Agent", fmt.Sprintf("sirseer-context/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Surface an exhausted quota as a distinct error rather than a bare 403.
	// The tool never waits out a rate limit.
	if t.detector.IsRateLimited(resp) {
		info := t.detector.Detect(resp)
		resp.Body.Close()
		if info.Reset.IsZero() {
			return nil, relaierrors.ErrRateLimit
		}
		return nil, fmt.Errorf("quota resets at %s: %w",
			info.Reset.Format("3:04 PM"), relaierrors.ErrRateLimit)
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}
