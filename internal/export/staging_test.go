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
	"os"
	"path/filepath"
	"testing"
)

func TestStagingArea_Path(t *testing.T) {
	t.Parallel()

	a := NewStagingArea("/stage")
	if got, want := a.Path("20210302-131415.xml"), filepath.Join("/stage", "20210302-131415.xml"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestNewStagingArea_defaultsToTempDir(t *testing.T) {
	t.Parallel()

	a := NewStagingArea("")
	if got, want := a.Dir(), os.TempDir(); got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}
}

func TestStagingArea_WriteAndRemove(t *testing.T) {
	t.Parallel()

	a := NewStagingArea(t.TempDir())
	path := a.Path("20210302-131415.xml")

	if err := a.Write(path, []byte("<orders/>")); err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(contents), "<orders/>"; got != want {
		t.Errorf("staged contents = %q, want %q", got, want)
	}

	// Overwrite is allowed.
	if err := a.Write(path, []byte("<orders><order/></orders>")); err != nil {
		t.Fatal(err)
	}

	if err := a.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected staged file to be gone, got %v", err)
	}
}

func TestStagingArea_RemoveAbsent(t *testing.T) {
	t.Parallel()

	a := NewStagingArea(t.TempDir())

	if err := a.Remove(a.Path("never-written.xml")); err != nil {
		t.Errorf("removing an absent file must succeed, got %v", err)
	}
}

func TestStagingArea_WriteBadDir(t *testing.T) {
	t.Parallel()

	a := NewStagingArea(filepath.Join(t.TempDir(), "does", "not", "exist"))

	err := a.Write(a.Path("20210302-131415.xml"), []byte("<orders/>"))
	if err == nil {
		t.Fatal("expected error")
	}

	var serr *StagingError
	if !errors.As(err, &serr) {
		t.Errorf("expected StagingError, got %T", err)
	}
}
