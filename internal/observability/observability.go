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

// Package observability sets up and configures observability tools.
package observability

import (
	"fmt"
	"sync"

	"go.opencensus.io/stats/view"
)

var collectedViews = struct {
	views []*view.View
	sync.Mutex
}{}

// CollectViews collects OpenCensus views so they can be registered at a later
// time when the process starts. This is mainly to be able to "collect" the
// views in a module's init(), but still be able to handle registration errors
// correctly.
//
// Typical usage:
//
//	var v = view.View{...}
//	func init() {
//	  observability.CollectViews(v)
//	}
func CollectViews(views ...*view.View) {
	collectedViews.Lock()
	defer collectedViews.Unlock()
	collectedViews.views = append(collectedViews.views, views...)
}

// AllViews returns the collected OpenCensus views.
func AllViews() []*view.View {
	collectedViews.Lock()
	defer collectedViews.Unlock()
	return collectedViews.views
}

// RegisterViews registers all collected views with the default OpenCensus
// worker. It is expected to be called once, early in main.
func RegisterViews() error {
	if err := view.Register(AllViews()...); err != nil {
		return fmt.Errorf("failed to register metric views: %w", err)
	}
	return nil
}
