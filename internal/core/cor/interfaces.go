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

// Package cor (Chain of Responsibility) is the workflow backbone of the
// render pipeline: a render is a chain of commands executed in order
// against a shared context. The context carries the data flowing between
// steps (the planned sequence, produced clip paths, the working output),
// collects errors, and tracks every temporary artifact so one Close call
// cleans up on success and failure alike. Each command gets its own
// OpenTelemetry span and success/error counters.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the piping keys of a chain: after each command
// runs, the chain moves the value stored under CtxOut into CtxIn for the
// next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state of one workflow execution: a property bag
// for inter-command data, an error collector, and the temp-file registry.
type Context interface {
	// SetContext / GetContext carry the standard Go context, which holds
	// cancellation and the current OpenTelemetry span.
	SetContext(ctx context.Context)
	GetContext() context.Context

	// Add stores a value under a key; returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get retrieves a stored value, or nil.
	Get(key string) interface{}

	// Remove deletes a stored value.
	Remove(key string)

	// AddError records a command failure under the command's name.
	AddError(key string, err error)

	// GetErrors returns every recorded failure, keyed by command name.
	GetErrors() map[string]error

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile registers an artifact for cleanup.
	AddTempFile(file string)

	// GetTempFiles lists every registered artifact.
	GetTempFiles() []string

	// Close removes every registered artifact. Defer it at the start of a
	// workflow so cleanup runs on every exit path.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is one atomic pipeline step.
type Command interface {
	Executable

	// GetName identifies the command in logs, spans and error maps.
	GetName() string

	// GetInputParam / GetOutputParam name the context keys this command
	// reads its primary input from and writes its primary output to.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other Commands, executed in order.
// Nesting chains inside chains is allowed.
type Chain interface {
	Command

	// ContinueOnFailure configures whether later commands still run after
	// an earlier one has recorded an error. Renders never want that: a
	// half-processed sequence is worse than no output.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution order.
	AddCommand(command Command) Chain
}
