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

package reporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pubfeed/order-export-server/internal/project"
	"github.com/pubfeed/order-export-server/internal/settings"

	"github.com/fatih/color"
)

func init() {
	// Keep ANSI escapes out of assertions.
	color.NoColor = true
}

func reportingSettings() *settings.Settings {
	return &settings.Settings{
		ErrorReporting: &settings.ErrorReporting{
			From:        "exporter@example.com",
			To:          "ops@example.com",
			SubjectLine: "export broke",
		},
		Email: &settings.Email{Server: "smtp.example.com"},
	}
}

func TestReport_alwaysPrints(t *testing.T) {
	t.Parallel()

	ctx := project.TestContext(t)

	var out bytes.Buffer
	r := New(&out, NewMemoryMailer())

	r.Report(ctx, "upload", errors.New("connection refused"), &settings.Settings{})

	got := out.String()
	if !strings.Contains(got, "upload") {
		t.Errorf("report %q does not name the stage", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("report %q does not carry the error detail", got)
	}
}

func TestReport_emailsWhenConfigured(t *testing.T) {
	t.Parallel()

	ctx := project.TestContext(t)

	var out bytes.Buffer
	mailer := NewMemoryMailer()
	r := New(&out, mailer)

	r.Report(ctx, "retrieve", errors.New("no such procedure"), reportingSettings())

	msgs := mailer.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one mail, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.To != "ops@example.com" || msg.From != "exporter@example.com" {
		t.Errorf("unexpected routing: %+v", msg)
	}
	if msg.Subject != "export broke" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "retrieve") {
		t.Errorf("mail body %q does not name the stage", msg.Body)
	}
}

func TestReport_noEmailWithoutBothBlocks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		s    *settings.Settings
	}{
		{name: "nil_settings", s: nil},
		{name: "neither", s: &settings.Settings{}},
		{
			name: "reporting_only",
			s:    &settings.Settings{ErrorReporting: &settings.ErrorReporting{To: "ops@example.com"}},
		},
		{
			name: "email_only",
			s:    &settings.Settings{Email: &settings.Email{Server: "smtp.example.com"}},
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := project.TestContext(t)

			var out bytes.Buffer
			mailer := NewMemoryMailer()
			r := New(&out, mailer)

			r.Report(ctx, "stage", errors.New("disk full"), tc.s)

			if out.Len() == 0 {
				t.Error("expected report on operator channel")
			}
			if got := len(mailer.Messages()); got != 0 {
				t.Errorf("expected no mail, got %d", got)
			}
		})
	}
}

func TestReport_mailFailureDoesNotPropagate(t *testing.T) {
	t.Parallel()

	ctx := project.TestContext(t)

	var out bytes.Buffer
	mailer := NewMemoryMailer()
	mailer.FailWith(errors.New("relay down"))
	r := New(&out, mailer)

	// Must not panic and must still print.
	r.Report(ctx, "upload", errors.New("auth failed"), reportingSettings())

	if out.Len() == 0 {
		t.Error("expected report on operator channel")
	}
}

type locatedError struct{ loc string }

func (e *locatedError) Error() string    { return "located" }
func (e *locatedError) Location() string { return e.loc }

func TestFormat_includesLocation(t *testing.T) {
	t.Parallel()

	got := Format("upload", &locatedError{loc: "pipeline.go:42"})
	if !strings.Contains(got, "pipeline.go:42") {
		t.Errorf("report %q does not carry the source location", got)
	}

	got = Format("upload", errors.New("plain"))
	if strings.Contains(got, "at:") {
		t.Errorf("report %q should not fabricate a location", got)
	}
}

func TestNewSMTPMailer_addressParsing(t *testing.T) {
	t.Parallel()

	m := NewSMTPMailer("smtp.example.com")
	if m.host != "smtp.example.com" || m.port != 25 {
		t.Errorf("got %s:%d, want smtp.example.com:25", m.host, m.port)
	}

	m = NewSMTPMailer("smtp.example.com:2525")
	if m.host != "smtp.example.com" || m.port != 2525 {
		t.Errorf("got %s:%d, want smtp.example.com:2525", m.host, m.port)
	}
}
