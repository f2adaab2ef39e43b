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
	"path/filepath"
)

// FilesystemUploader copies staged files into a local directory tree. Meant
// for development and integration testing.
type FilesystemUploader struct {
	root string
}

// NewFilesystemUploader creates a filesystem uploader rooted at root.
func NewFilesystemUploader(root string) *FilesystemUploader {
	return &FilesystemUploader{root: root}
}

// Upload copies the local file under the root, mirroring the remote path.
func (u *FilesystemUploader) Upload(ctx context.Context, localPath, remotePath string) error {
	contents, err := os.ReadFile(localPath)
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("reading staged file %s", localPath), Err: err}
	}

	target := filepath.Join(u.root, filepath.FromSlash(remotePath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &TransferError{Op: fmt.Sprintf("creating %s", filepath.Dir(target)), Err: err}
	}
	if err := os.WriteFile(target, contents, 0o644); err != nil {
		return &TransferError{Op: fmt.Sprintf("writing %s", target), Err: err}
	}
	return nil
}
