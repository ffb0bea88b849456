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

package output

// RenderedItem is one rendered text block together with the identity used
// to name per-item output files.
type RenderedItem struct {
	// Kind segment for file names: "issue", "pr", or "commit".
	Kind string
	// ID is the item number, or the short SHA for commits.
	ID string
	// Text is the rendered block, UTF-8.
	Text string
}

// Writer defines the interface for writing rendered items. This abstraction
// lets the same fetch loop stream to stdout or write per-item files without
// changing the core logic.
type Writer interface {
	// WriteItem writes a single rendered item to the output.
	WriteItem(item RenderedItem) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}
