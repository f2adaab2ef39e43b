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

package transfer

import "strings"

// Destination joins the configured remote upload path and an export filename.
// The base path is normalized so it always begins and ends with exactly one
// "/": an empty path becomes the root.
func Destination(uploadPath, filename string) string {
	return NormalizeUploadPath(uploadPath) + filename
}

// NormalizeUploadPath returns uploadPath with exactly one leading and one
// trailing separator. Empty input normalizes to "/".
func NormalizeUploadPath(uploadPath string) string {
	if uploadPath == "" {
		return "/"
	}
	if !strings.HasPrefix(uploadPath, "/") {
		uploadPath = "/" + uploadPath
	}
	if !strings.HasSuffix(uploadPath, "/") {
		uploadPath += "/"
	}
	return uploadPath
}
