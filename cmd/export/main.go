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

// This package is the order export pipeline binary. It performs exactly one
// export run per invocation and is intended to be invoked by an external
// scheduler that never overlaps invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pubfeed/order-export-server/internal/buildinfo"
	"github.com/pubfeed/order-export-server/internal/export"
	"github.com/pubfeed/order-export-server/internal/logging"
	"github.com/pubfeed/order-export-server/internal/observability"
	"github.com/pubfeed/order-export-server/internal/setup"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	debug, _ := strconv.ParseBool(os.Getenv("LOG_DEBUG"))
	logger := logging.NewLogger(debug)
	logger = logger.With("build_id", buildinfo.OrderExporter.ID(), "build_tag", buildinfo.OrderExporter.Tag())
	ctx = logging.WithLogger(ctx, logger)

	defer func() {
		done()
		if r := recover(); r != nil {
			logger.Fatalw("application panic", "panic", r)
		}
	}()

	err := realMain(ctx)
	done()

	if err != nil {
		logger.Fatal(err)
	}
	logger.Infow("export run finished")
}

func realMain(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	if err := observability.RegisterViews(); err != nil {
		return err
	}

	var config export.Config
	env, settings, closer, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer closer()

	pipeline, err := export.NewPipeline(&config, env)
	if err != nil {
		return fmt.Errorf("export.NewPipeline: %w", err)
	}

	logger.Infow("starting export run", "test_mode", settings.TestModeEnabled())
	return pipeline.Run(ctx, settings)
}
