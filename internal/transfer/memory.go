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

package transfer

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MemoryUploader records uploads in memory. Meant for testing.
type MemoryUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
	failErr error
}

// NewMemoryUploader creates a new in-memory uploader.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{uploads: make(map[string][]byte)}
}

// FailWith makes every subsequent Upload fail with err. Pass nil to restore
// normal behavior.
func (u *MemoryUploader) FailWith(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failErr = err
}

// Upload records the staged file contents under remotePath.
func (u *MemoryUploader) Upload(ctx context.Context, localPath, remotePath string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.failErr != nil {
		return &TransferError{Op: fmt.Sprintf("uploading %s", remotePath), Err: u.failErr}
	}

	contents, err := os.ReadFile(localPath)
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("reading staged file %s", localPath), Err: err}
	}
	u.uploads[remotePath] = contents
	return nil
}

// Uploaded returns the contents recorded for remotePath.
func (u *MemoryUploader) Uploaded(remotePath string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	contents, ok := u.uploads[remotePath]
	return contents, ok
}

// UploadCount returns the number of recorded uploads.
func (u *MemoryUploader) UploadCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}
