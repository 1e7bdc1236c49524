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

package test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FakeRunner is a scripted media.Executor. ffprobe invocations return
// canned JSON keyed by input path; ffmpeg invocations create their
// output file so downstream commands find something on disk. Individual
// invocations can be failed by argument substring. Safe for concurrent
// use: the unit renderer runs it from several goroutines.
type FakeRunner struct {
	mu sync.Mutex

	// ProbeOutputs maps an input path to the ffprobe JSON to return for
	// it. Paths with no entry get DefaultProbe.
	ProbeOutputs map[string]string

	// DefaultProbe is returned for unscripted probe targets. Leave empty
	// to fail those probes instead.
	DefaultProbe string

	// FailWhen maps an argument substring to the error any matching
	// ffmpeg invocation returns.
	FailWhen map[string]error

	// Calls records every invocation, command name first.
	Calls [][]string
}

// NewFakeRunner returns a runner whose unscripted probes report a 5s
// video with audio at the given dimensions.
func NewFakeRunner(width, height int) *FakeRunner {
	return &FakeRunner{
		ProbeOutputs: make(map[string]string),
		DefaultProbe: ProbeJSON(5.0, width, height, true),
		FailWhen:     make(map[string]error),
	}
}

// Run implements media.Executor.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	call := append([]string{name}, args...)
	f.Calls = append(f.Calls, call)

	var failure error
	for needle, err := range f.FailWhen {
		for _, a := range args {
			if strings.Contains(a, needle) {
				failure = err
				break
			}
		}
		if failure != nil {
			break
		}
	}

	if strings.Contains(name, "ffprobe") {
		target := args[len(args)-1]
		out, ok := f.ProbeOutputs[target]
		f.mu.Unlock()
		if failure != nil {
			return nil, failure
		}
		if !ok {
			out = f.DefaultProbe
		}
		if out == "" {
			return nil, fmt.Errorf("no probe script for %s", target)
		}
		return []byte(out), nil
	}
	f.mu.Unlock()

	// ffmpeg: materialize the output file (always the last argument).
	// A failed invocation writes it too, before erroring: real ffmpeg
	// leaves a partial output file behind when it dies mid-encode.
	out := args[len(args)-1]
	if err := os.WriteFile(out, mp4Header, 0o644); err != nil {
		return nil, err
	}
	return nil, failure
}

// CallCount returns how many recorded invocations contain the given
// argument substring.
func (f *FakeRunner) CallCount(needle string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.Calls {
		for _, a := range call {
			if strings.Contains(a, needle) {
				count++
				break
			}
		}
	}
	return count
}
