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

// Package reporter turns pipeline failures into operator-facing reports.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pubfeed/order-export-server/internal/logging"
	"github.com/pubfeed/order-export-server/internal/settings"

	"github.com/fatih/color"
)

const defaultSubjectLine = "order export failed"

// Reporter formats a failure into a human-readable report, writes it to the
// operator channel, and optionally emails it.
type Reporter struct {
	out    io.Writer
	mailer Mailer
}

// New creates a Reporter writing to out. A nil mailer disables email
// delivery.
func New(out io.Writer, mailer Mailer) *Reporter {
	return &Reporter{out: out, mailer: mailer}
}

// Report writes a failure report for the named stage. The report always
// reaches the operator channel; it is additionally emailed if and only if the
// settings carry both the error-reporting block and a mail server. Report
// never fails: a mail delivery problem is logged and swallowed.
func (r *Reporter) Report(ctx context.Context, stage string, err error, s *settings.Settings) {
	logger := logging.FromContext(ctx)

	report := Format(stage, err)
	color.New(color.FgRed, color.Bold).Fprintln(r.out, report)

	if s == nil || !s.ReportingConfigured() {
		return
	}
	if r.mailer == nil {
		logger.Warnw("error reporting configured but no mailer installed")
		return
	}

	subject := s.ErrorReporting.SubjectLine
	if subject == "" {
		subject = defaultSubjectLine
	}

	if merr := r.mailer.Send(s.ErrorReporting.To, s.ErrorReporting.From, subject, report); merr != nil {
		// Best effort only. The report already reached the operator channel.
		logger.Errorw("failed to email failure report", "error", merr)
		return
	}
	logger.Infow("emailed failure report", "to", s.ErrorReporting.To)
}

// Format renders the report text: the failing stage, the full error chain,
// and the originating source location when the error carries one.
func Format(stage string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order export failed during %s\n", stage)
	fmt.Fprintf(&b, "error: %v", err)

	var located interface{ Location() string }
	if errors.As(err, &located) {
		if loc := located.Location(); loc != "" {
			fmt.Fprintf(&b, "\nat: %s", loc)
		}
	}
	return b.String()
}
