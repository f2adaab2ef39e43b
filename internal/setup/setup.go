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

// Package setup provides common initialization code for the application.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pubfeed/order-export-server/internal/database"
	"github.com/pubfeed/order-export-server/internal/export"
	"github.com/pubfeed/order-export-server/internal/logging"
	"github.com/pubfeed/order-export-server/internal/orders"
	"github.com/pubfeed/order-export-server/internal/reporter"
	"github.com/pubfeed/order-export-server/internal/serverenv"
	"github.com/pubfeed/order-export-server/internal/settings"
	"github.com/pubfeed/order-export-server/internal/transfer"

	"github.com/sethvargo/go-envconfig"
)

// Defer is returned from Setup to be deferred until the caller exits.
type Defer func()

// Setup processes the process environment into config, loads the settings
// document, and builds the server environment: database pool, uploader, and
// mailer. The returned Defer releases held resources.
//
// A failure before the settings document loads is a configuration failure and
// surfaces as a plain error. Once settings are loaded, failures are handed to
// the failure reporter, so a database that cannot be reached produces the
// same operator diagnostic and email as a failure inside a run.
func Setup(ctx context.Context, config *export.Config) (*serverenv.ServerEnv, *settings.Settings, Defer, error) {
	return setup(ctx, config, os.Stderr)
}

func setup(ctx context.Context, config *export.Config, out io.Writer) (*serverenv.ServerEnv, *settings.Settings, Defer, error) {
	logger := logging.FromContext(ctx)

	if err := envconfig.Process(ctx, config); err != nil {
		return nil, nil, nil, fmt.Errorf("processing environment: %w", err)
	}

	s, err := settings.Load(config.SettingsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	logger.Infow("loaded settings",
		"path", config.SettingsPath,
		"test_mode", s.TestModeEnabled(),
		"reporting_configured", s.ReportingConfigured())

	// The mailer and reporter come up before the database so a connection
	// failure, the first step past configuration, can be reported.
	var mailer reporter.Mailer = reporter.NewNoopMailer()
	if s.Email != nil && s.Email.Server != "" {
		mailer = reporter.NewSMTPMailer(s.Email.Server)
	}
	rep := reporter.New(out, mailer)

	db, err := database.New(ctx, s.OrdersDatabase.ConnectionString)
	if err != nil {
		derr := &orders.DataAccessError{Op: "opening connection pool", Err: err}
		rep.Report(ctx, export.StageRetrieve, derr, s)
		return nil, nil, nil, derr
	}

	uploader, err := transfer.UploaderFor(ctx, config.TransferConfig(), transfer.Credentials{
		Server:   s.FTP.Server,
		User:     s.FTP.UserID,
		Password: s.FTP.Password,
	})
	if err != nil {
		db.Close(ctx)
		return nil, nil, nil, fmt.Errorf("building uploader: %w", err)
	}

	env := serverenv.New(ctx,
		serverenv.WithDatabase(db),
		serverenv.WithUploader(uploader),
		serverenv.WithMailer(mailer))

	return env, s, func() { env.Close(ctx) }, nil
}
