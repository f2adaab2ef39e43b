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

// Package export implements the order export pipeline: retrieve pending
// orders, stage them as a uniquely named local file, upload the file, and
// clean up.
package export

import (
	"time"

	"github.com/pubfeed/order-export-server/internal/transfer"
)

// Config represents the process environment for the export pipeline. The run
// settings document (database, transfer server, reporting) is separate and
// loaded from SettingsPath.
type Config struct {
	Transfer transfer.Config

	// SettingsPath is the well-known location of the settings document.
	SettingsPath string `env:"EXPORT_SETTINGS_PATH, default=/etc/order-export/settings.yaml"`

	// StagingDir overrides the transient directory exports are staged in.
	// Empty means the system temporary directory.
	StagingDir string `env:"EXPORT_STAGING_DIR"`

	// RunTimeout bounds one pipeline run. Zero disables the bound; a stuck
	// database call or transfer then blocks the run indefinitely.
	RunTimeout time.Duration `env:"EXPORT_RUN_TIMEOUT, default=0"`

	// DebugLogging enables debug-level logging.
	DebugLogging bool `env:"LOG_DEBUG, default=false"`
}

// TransferConfig returns the uploader configuration.
func (c *Config) TransferConfig() *transfer.Config {
	return &c.Transfer
}
