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

// Package transfer is an interface over file-transfer clients.
package transfer

import (
	"context"
	"fmt"

	"github.com/pubfeed/order-export-server/internal/logging"
)

// UploaderType identifies the uploader implementation to use.
type UploaderType string

const (
	UploaderNoop       UploaderType = "NOOP"
	UploaderSFTP       UploaderType = "SFTP"
	UploaderFilesystem UploaderType = "FILESYSTEM"
	UploaderMemory     UploaderType = "MEMORY"
)

// Config is the uploader configuration.
type Config struct {
	Type UploaderType `env:"UPLOADER_TYPE, default=SFTP"`

	// FilesystemRoot is the local root the FILESYSTEM uploader copies into.
	FilesystemRoot string `env:"UPLOADER_FILESYSTEM_ROOT, default=/var/tmp"`
}

// Credentials authenticate against the transfer server. Host identity is a
// deployment precondition, trusted out of band; uploaders do not verify host
// keys at runtime.
type Credentials struct {
	Server   string
	User     string
	Password string
}

// Uploader sends one staged local file to a remote destination. A single
// attempt only: no retries and no partial-upload resume.
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string) error
}

// TransferError indicates an upload failed. Detail from the underlying
// client is retained for failure reports.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer: %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// UploaderFor creates an Uploader for the configured type.
func UploaderFor(ctx context.Context, config *Config, creds Credentials) (Uploader, error) {
	logger := logging.FromContext(ctx)
	logger.Debugw("building uploader", "type", config.Type)

	switch config.Type {
	case UploaderSFTP:
		return NewSFTPUploader(creds), nil
	case UploaderFilesystem:
		return NewFilesystemUploader(config.FilesystemRoot), nil
	case UploaderMemory:
		return NewMemoryUploader(), nil
	case UploaderNoop:
		return NewNoopUploader(), nil
	default:
		return nil, fmt.Errorf("unknown uploader type: %v", config.Type)
	}
}
