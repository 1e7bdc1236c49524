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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the render
// pipeline. This file centralizes the context parameter names commands
// use to exchange data outside the default CtxIn/CtxOut piping.
package commands

// GetRenderJobParameterName returns the context key holding the
// *model.RenderJob for the whole run.
func GetRenderJobParameterName() string {
	return "render_job"
}

// GetMediaInfoParameterName returns the context key holding the
// map[string]media.Info of probed source files, keyed by path.
func GetMediaInfoParameterName() string {
	return "media_info"
}

// GetSequenceParameterName returns the context key holding the planned
// model.Sequence.
func GetSequenceParameterName() string {
	return "assembly_sequence"
}

// GetClipListParameterName returns the context key holding the ordered
// []string of rendered unit clip paths.
func GetClipListParameterName() string {
	return "unit_clips"
}

// GetAssembledFileParameterName returns the context key holding the path
// of the concatenated (pre-caption) video.
func GetAssembledFileParameterName() string {
	return "assembled_file"
}
