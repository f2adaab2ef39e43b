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

package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pubfeed/order-export-server/internal/logging"
	"github.com/pubfeed/order-export-server/internal/orders"
	"github.com/pubfeed/order-export-server/internal/reporter"
	"github.com/pubfeed/order-export-server/internal/serverenv"
	"github.com/pubfeed/order-export-server/internal/settings"
	"github.com/pubfeed/order-export-server/internal/transfer"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// State is the orchestrator state. One run walks Idle through Done, or ends
// in Failed; there are no retry transitions.
type State string

const (
	StateIdle          State = "IDLE"
	StateConfigLoaded  State = "CONFIG_LOADED"
	StateDataRetrieved State = "DATA_RETRIEVED"
	StateStaged        State = "STAGED"
	StateUploaded      State = "UPLOADED"
	StateCleanedUp     State = "CLEANED_UP"
	StateDone          State = "DONE"
	StateFailed        State = "FAILED"
)

// Stage names used in failure reports.
const (
	StageRetrieve = "data retrieval"
	StageStaging  = "staging"
	StageUpload   = "upload"
	StageCleanup  = "cleanup"
)

// Retriever returns one run's pending-order document, marking the orders
// consumed in the same call.
type Retriever interface {
	RetrievePending(ctx context.Context) (orders.Batch, error)
}

// Pipeline sequences one export run. It is not safe for concurrent use, and
// overlapping runs against the same database are unsafe regardless; external
// scheduling must keep invocations serialized.
type Pipeline struct {
	config    *Config
	retriever Retriever
	uploader  transfer.Uploader
	reporter  *reporter.Reporter
	staging   StagingArea
	clock     Clock

	state State
}

// Option modifies a Pipeline on creation.
type Option func(*Pipeline) *Pipeline

// WithRetriever overrides the order retriever.
func WithRetriever(r Retriever) Option {
	return func(p *Pipeline) *Pipeline {
		p.retriever = r
		return p
	}
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(p *Pipeline) *Pipeline {
		p.clock = c
		return p
	}
}

// WithReporter overrides the failure reporter.
func WithReporter(r *reporter.Reporter) Option {
	return func(p *Pipeline) *Pipeline {
		p.reporter = r
		return p
	}
}

// NewPipeline builds a Pipeline from the environment: database-backed
// retriever, configured uploader, stderr reporter with the environment's
// mailer.
func NewPipeline(config *Config, env *serverenv.ServerEnv, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		config:   config,
		uploader: env.Uploader(),
		reporter: reporter.New(os.Stderr, env.Mailer()),
		staging:  NewStagingArea(config.StagingDir),
		clock:    SystemClock(),
		state:    StateIdle,
	}
	if env.Database() != nil {
		p.retriever = orders.New(env.Database())
	}

	for _, f := range opts {
		p = f(p)
	}

	if p.retriever == nil {
		return nil, fmt.Errorf("pipeline requires a retriever")
	}
	if p.uploader == nil {
		return nil, fmt.Errorf("pipeline requires an uploader")
	}
	return p, nil
}

// State returns the orchestrator state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes one export run. Any failure past this point is reported
// exactly once, through the reporter, before being returned. The staged file
// is removed on every exit path once written.
func (p *Pipeline) Run(ctx context.Context, s *settings.Settings) error {
	if p.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.RunTimeout)
		defer cancel()
	}

	runID := uuid.New().String()
	logger := logging.FromContext(ctx).Named("export").With("run_id", runID)
	ctx = logging.WithLogger(ctx, logger)

	stats.Record(ctx, mRunsStarted.M(1))
	p.state = StateConfigLoaded

	if err := p.run(ctx, s); err != nil {
		p.state = StateFailed
		stage := failingStage(err)
		recordFailure(ctx, stage)
		p.reporter.Report(ctx, stage, err, s)
		return err
	}

	p.state = StateDone
	logger.Infow("export run complete")
	return nil
}

func (p *Pipeline) run(ctx context.Context, s *settings.Settings) error {
	logger := logging.FromContext(ctx)

	// Retrieval also marks the returned orders exported: a failure past this
	// point cannot re-retrieve this batch.
	batch, err := p.retriever.RetrievePending(ctx)
	if err != nil {
		return NewStageError(StageRetrieve, err)
	}
	p.state = StateDataRetrieved
	logger.Infow("retrieved pending orders", "bytes", len(batch))

	filename := Filename(p.clock.Now(), s.TestModeEnabled())
	path := p.staging.Path(filename)

	if err := p.staging.Write(path, batch); err != nil {
		return NewStageError(StageStaging, err)
	}
	p.state = StateStaged
	logger.Infow("staged export", "path", path)

	return p.uploadAndCleanUp(ctx, s, path, filename, len(batch))
}

// uploadAndCleanUp holds the one unconditional transition of the pipeline:
// once the staged file exists, its removal runs on every exit path, upload
// success or not.
func (p *Pipeline) uploadAndCleanUp(ctx context.Context, s *settings.Settings, path, filename string, size int) (err error) {
	logger := logging.FromContext(ctx)

	defer func() {
		if rerr := p.staging.Remove(path); rerr != nil {
			rerr = NewStageError(StageCleanup, rerr)
			if err != nil {
				err = multierror.Append(err, rerr)
			} else {
				err = rerr
			}
			return
		}
		p.state = StateCleanedUp
		logger.Debugw("removed staged file", "path", path)
	}()

	destination := transfer.Destination(s.FTP.UploadPath, filename)
	if uerr := p.uploader.Upload(ctx, path, destination); uerr != nil {
		return NewStageError(StageUpload, uerr)
	}
	p.state = StateUploaded
	logger.Infow("uploaded export", "destination", destination, "bytes", size)
	stats.Record(ctx, mExportedBytes.M(int64(size)))
	return nil
}

// failingStage extracts the stage name from the first StageError in the
// chain.
func failingStage(err error) string {
	var serr *StageError
	if errors.As(err, &serr) {
		return serr.Stage()
	}
	return "unknown"
}

func recordFailure(ctx context.Context, stage string) {
	mctx, err := tag.New(ctx, tag.Upsert(StageTagKey, stage))
	if err != nil {
		mctx = ctx
	}
	stats.Record(mctx, mRunsFailed.M(1))
}
