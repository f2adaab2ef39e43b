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

package setup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pubfeed/order-export-server/internal/export"
	"github.com/pubfeed/order-export-server/internal/orders"
	"github.com/pubfeed/order-export-server/internal/project"
	"github.com/pubfeed/order-export-server/internal/settings"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func writeSettings(tb testing.TB, contents string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestSetup_databaseFailureIsReported(t *testing.T) {
	ctx := project.TestContext(t)

	// The connection string is well-formed YAML but an invalid DSN, so pool
	// construction fails before anything is dialed.
	path := writeSettings(t, `
ordersDatabase:
  connectionString: "postgres://orders@db/orders?sslmode=bogus"
ftp:
  server: "transfer.example.com"
  userid: "publisher"
  password: "hunter2"
  uploadPath: "incoming"
`)
	t.Setenv("EXPORT_SETTINGS_PATH", path)

	var config export.Config
	out := &bytes.Buffer{}

	env, _, closer, err := setup(ctx, &config, out)
	if err == nil {
		t.Fatal("expected error")
	}
	if env != nil || closer != nil {
		t.Error("expected no environment on database failure")
	}

	var derr *orders.DataAccessError
	if !errors.As(err, &derr) {
		t.Errorf("expected DataAccessError, got %T", err)
	}

	report := out.String()
	if !strings.Contains(report, export.StageRetrieve) {
		t.Errorf("report %q does not name the retrieval stage", report)
	}
	if !strings.Contains(report, "opening connection pool") {
		t.Errorf("report %q does not carry the connection detail", report)
	}
}

func TestSetup_settingsFailureIsNotReported(t *testing.T) {
	ctx := project.TestContext(t)

	t.Setenv("EXPORT_SETTINGS_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	var config export.Config
	out := &bytes.Buffer{}

	_, _, _, err := setup(ctx, &config, out)
	if err == nil {
		t.Fatal("expected error")
	}

	var cerr *settings.ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ConfigError, got %T", err)
	}

	// Configuration failures end the run before reporting is wired up.
	if out.Len() != 0 {
		t.Errorf("expected no failure report, got %q", out.String())
	}
}
