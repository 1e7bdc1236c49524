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

// This file defines the command that turns the validated segment maps
// into an ordered assembly sequence. The pairing rules themselves live in
// the plan package; this command only adapts them to the chain.
package commands

import (
	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
	"github.com/jaycherian/go-video-assembly/internal/core/plan"
)

// SequencePlanner computes the deterministic assembly order for a job's
// completed segments.
type SequencePlanner struct {
	cor.BaseCommand
}

// NewSequencePlanner is the constructor for the SequencePlanner command.
func NewSequencePlanner(name string) *SequencePlanner {
	return &SequencePlanner{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute plans the sequence and publishes it for the unit renderer.
func (c *SequencePlanner) Execute(context cor.Context) {
	job := context.Get(c.GetInputParam()).(*model.RenderJob)

	sequence, err := plan.Plan(job.ARoll, job.BRoll)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetSequenceParameterName(), sequence)
	context.Add(cor.CtxOut, sequence)
}
