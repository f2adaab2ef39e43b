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
	"github.com/pubfeed/order-export-server/internal/metrics"
	"github.com/pubfeed/order-export-server/internal/observability"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	exportMetricsPrefix = metrics.MetricRoot + "export/"

	mRunsStarted = stats.Int64(exportMetricsPrefix+"runs_started",
		"Number of pipeline runs started", stats.UnitDimensionless)
	mRunsFailed = stats.Int64(exportMetricsPrefix+"runs_failed",
		"Number of pipeline runs failed, by stage", stats.UnitDimensionless)
	mExportedBytes = stats.Int64(exportMetricsPrefix+"exported_bytes",
		"Size of the uploaded export document", stats.UnitBytes)

	// StageTagKey carries the failing stage on failure metrics.
	StageTagKey = tag.MustNewKey("stage")
)

func init() {
	observability.CollectViews(
		&view.View{
			Name:        exportMetricsPrefix + "runs_started_count",
			Description: "Total count of pipeline runs started",
			Measure:     mRunsStarted,
			Aggregation: view.Sum(),
		},
		&view.View{
			Name:        exportMetricsPrefix + "runs_failed_count",
			Description: "Total count of pipeline runs failed, by stage",
			Measure:     mRunsFailed,
			Aggregation: view.Sum(),
			TagKeys:     []tag.Key{StageTagKey},
		},
		&view.View{
			Name:        exportMetricsPrefix + "exported_bytes_latest",
			Description: "Size of the most recent uploaded export document",
			Measure:     mExportedBytes,
			Aggregation: view.LastValue(),
		},
	)
}
