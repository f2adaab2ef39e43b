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

package serverenv

import (
	"testing"

	"github.com/pubfeed/order-export-server/internal/project"
	"github.com/pubfeed/order-export-server/internal/reporter"
	"github.com/pubfeed/order-export-server/internal/transfer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := project.TestContext(t)

	uploader := transfer.NewMemoryUploader()
	mailer := reporter.NewMemoryMailer()

	env := New(ctx, WithUploader(uploader), WithMailer(mailer))

	if env.Uploader() != uploader {
		t.Error("expected uploader to be attached")
	}
	if env.Mailer() != mailer {
		t.Error("expected mailer to be attached")
	}
	if env.Database() != nil {
		t.Error("expected no database")
	}

	if err := env.Close(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestClose_nil(t *testing.T) {
	t.Parallel()

	ctx := project.TestContext(t)

	var env *ServerEnv
	if err := env.Close(ctx); err != nil {
		t.Fatal(err)
	}
}
