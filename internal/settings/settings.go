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

// Package settings loads the run settings document. The document is read once
// at process start from a local file; the resulting value is immutable and is
// passed explicitly to every component that needs it.
package settings

import (
	"fmt"

	"github.com/pubfeed/order-export-server/internal/project"

	"github.com/spf13/viper"
)

// Settings is the run settings document.
type Settings struct {
	OrdersDatabase OrdersDatabase  `mapstructure:"ordersDatabase"`
	FTP            FTP             `mapstructure:"ftp"`
	TestMode       string          `mapstructure:"-"`
	ErrorReporting *ErrorReporting `mapstructure:"errorReporting"`
	Email          *Email          `mapstructure:"email"`
}

// OrdersDatabase identifies the data store holding pending orders.
type OrdersDatabase struct {
	ConnectionString string `mapstructure:"connectionString"`
}

// FTP identifies the file-transfer server and remote upload path.
type FTP struct {
	Server     string `mapstructure:"server"`
	UserID     string `mapstructure:"userid"`
	Password   string `mapstructure:"password"`
	UploadPath string `mapstructure:"uploadPath"`
}

// ErrorReporting configures delivery of failure reports by email.
type ErrorReporting struct {
	From        string `mapstructure:"from"`
	To          string `mapstructure:"to"`
	SubjectLine string `mapstructure:"subjectLine"`
}

// Email identifies the mail server used for error reporting.
type Email struct {
	Server string `mapstructure:"server"`
}

// ConfigError indicates the settings document is missing, unreadable, or
// malformed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("settings %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads the settings document at path. Absence or malformed content is
// an error before any data is touched.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("parsing settings: %w", err)}
	}

	// The test-mode flag may be written as a bare number; read it through
	// viper so 0 and "0" land as the same string.
	s.TestMode = project.TrimSpaceAndNonPrintable(v.GetString("testmode"))
	s.OrdersDatabase.ConnectionString = project.TrimSpaceAndNonPrintable(s.OrdersDatabase.ConnectionString)
	s.FTP.Server = project.TrimSpace(s.FTP.Server)
	s.FTP.UserID = project.TrimSpace(s.FTP.UserID)
	s.FTP.UploadPath = project.TrimSpace(s.FTP.UploadPath)

	// Optional blocks are only considered present when the document actually
	// carries them.
	if !v.IsSet("errorReporting") {
		s.ErrorReporting = nil
	}
	if !v.IsSet("email") {
		s.Email = nil
	}

	if err := s.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return &s, nil
}

// Validate checks that the fields required to run a pipeline are present.
func (s *Settings) Validate() error {
	if s.OrdersDatabase.ConnectionString == "" {
		return fmt.Errorf("ordersDatabase.connectionString is required")
	}
	if s.FTP.Server == "" {
		return fmt.Errorf("ftp.server is required")
	}
	if s.FTP.UserID == "" {
		return fmt.Errorf("ftp.userid is required")
	}
	return nil
}

// TestModeEnabled reports whether test mode is on. Test mode is considered on
// unless the flag is absent, empty, or the literal value zero.
func (s *Settings) TestModeEnabled() bool {
	return s.TestMode != "" && s.TestMode != "0"
}

// ReportingConfigured reports whether both the error-reporting block and the
// mail-server block are present. Email dispatch requires both.
func (s *Settings) ReportingConfigured() bool {
	return s.ErrorReporting != nil && s.Email != nil && s.Email.Server != ""
}
