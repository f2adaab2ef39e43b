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

import "time"

const (
	// testPrefix marks exports produced by test-mode runs. Test mode changes
	// nothing but the filename.
	testPrefix = "TEST"

	// timestampLayout has second resolution. Two runs inside the same second
	// can collide; external scheduling keeps runs much further apart than
	// that.
	timestampLayout = "20060102-150405"

	fileSuffix = ".xml"
)

// Filename derives the canonical export filename for the given instant. It is
// a pure function of its inputs: a fixed clock reading always yields the same
// name.
func Filename(now time.Time, testMode bool) string {
	name := now.Format(timestampLayout) + fileSuffix
	if testMode {
		name = testPrefix + name
	}
	return name
}
