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

package media

import (
	"fmt"
	"strings"
)

// ConcatListContent renders the ffmpeg concat-demuxer list file for the
// given clips, strictly in the order given. Single quotes in paths are
// escaped per the demuxer's quoting rules.
func ConcatListContent(paths []string) string {
	var b strings.Builder
	for _, path := range paths {
		escaped := strings.ReplaceAll(path, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String()
}

// ConcatArgs builds the invocation that joins the unit clips. Every unit
// was encoded with identical settings, so the streams are copied rather
// than re-encoded.
func ConcatArgs(listFile, out string) []string {
	return []string{
		"-y", "-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		out,
	}
}

// BurnSubtitlesArgs builds the second-pass invocation that renders the ASS
// caption track onto the concatenated timeline. The audio stream is copied;
// only video is re-encoded.
func BurnSubtitlesArgs(in, assFile, out string, opts EncodeOptions) []string {
	args := []string{
		"-y", "-hide_banner",
		"-i", in,
		"-vf", fmt.Sprintf("ass=%s", assFile),
	}
	args = append(args, opts.videoArgs()...)
	args = append(args, "-c:a", "copy")
	return append(args, out)
}

// FinalizeArgs builds the last remux that writes the caller's output file
// with streaming-friendly layout.
func FinalizeArgs(in, out string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", in,
		"-c", "copy",
		"-movflags", "+faststart",
		out,
	}
}
