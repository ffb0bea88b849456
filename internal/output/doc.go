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

// Package output writes rendered text blocks to their destination. Two
// writers implement the same interface: TextWriter streams blocks to an
// io.Writer (stdout by default), and DirWriter places each block in its own
// file inside a timestamped directory for piping individual items to other
// tools.
//
// Example usage:
//
//	w, err := output.NewDirWriter(".", "item", time.Now())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.WriteItem(output.RenderedItem{Kind: "pr", ID: "7", Text: block}); err != nil {
//	    log.Printf("Failed to write item: %v", err)
//	}
package output
