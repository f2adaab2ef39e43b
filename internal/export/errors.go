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
	"fmt"
	"path/filepath"
	"runtime"
)

// StageError wraps a failure with the pipeline stage it occurred in and the
// call site where it was wrapped. The reporter surfaces both.
type StageError struct {
	stage string
	file  string
	line  int
	err   error
}

// NewStageError wraps err with the given stage name, recording the caller's
// source location.
func NewStageError(stage string, err error) *StageError {
	se := &StageError{stage: stage, err: err}
	if _, file, line, ok := runtime.Caller(1); ok {
		se.file = filepath.Base(file)
		se.line = line
	}
	return se
}

// Stage returns the name of the failing stage.
func (e *StageError) Stage() string {
	return e.stage
}

// Location returns "file:line" of the wrap site, or "" when unknown.
func (e *StageError) Location() string {
	if e.file == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.stage, e.err)
}

func (e *StageError) Unwrap() error {
	return e.err
}
