// Copyright 2021 the Order Export Server authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StagingArea maps export filenames into a transient local directory and owns
// the staged file for the duration of one run.
type StagingArea struct {
	dir string
}

// NewStagingArea creates a staging area rooted at dir. An empty dir falls
// back to the system temporary directory.
func NewStagingArea(dir string) StagingArea {
	if dir == "" {
		dir = os.TempDir()
	}
	return StagingArea{dir: dir}
}

// Dir returns the staging directory.
func (a StagingArea) Dir() string {
	return a.dir
}

// Path resolves an export filename to its fully-qualified staged path. Pure;
// no I/O.
func (a StagingArea) Path(filename string) string {
	return filepath.Join(a.dir, filename)
}

// Write creates or overwrites the staged file with the given content.
func (a StagingArea) Write(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return &StagingError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Remove deletes the staged file. A file that is already absent is success;
// any other failure (held open by another process, permissions) surfaces.
func (a StagingArea) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StagingError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// StagingError indicates a local staged-file operation failed.
type StagingError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}
