// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"strings"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// MissingMediaError aggregates every source file that failed validation so
// one render attempt reports the complete set of problems instead of just
// the first one found.
type MissingMediaError struct {
	Missing []string
}

func (e *MissingMediaError) Error() string {
	return fmt.Sprintf("media validation failed for %d file(s): %s",
		len(e.Missing), strings.Join(e.Missing, "; "))
}

// ClipProcessingError identifies which assembly unit failed so callers can
// point at the offending source media.
type ClipProcessingError struct {
	Index int
	Unit  model.AssemblyUnit
	Err   error
}

func (e *ClipProcessingError) Error() string {
	return fmt.Sprintf("unit %d (%s) failed: %v", e.Index, e.Unit.String(), e.Err)
}

func (e *ClipProcessingError) Unwrap() error { return e.Err }

// EncodeError wraps a failure of concatenation, caption burn or the final
// encode. By the time it surfaces, any partial output file has been
// removed.
type EncodeError struct {
	Stage string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
