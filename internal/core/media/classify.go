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
	"io"
	"os"

	"github.com/h2non/filetype"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// classifyHeaderSize is how many leading bytes magic-byte detection needs.
const classifyHeaderSize = 261

// Classify sniffs a media file's leading bytes and reports whether it is a
// video or an image. Extensions are not trusted: the generation pipeline
// has been known to write videos with image suffixes and vice versa, and
// ffmpeg behaves badly when lied to about container types.
//
// Inputs:
//   - path: The file to classify.
//
// Outputs:
//   - model.ContentType: ContentVideo or ContentImage.
//   - error: When the file is unreadable or is neither media kind.
func Classify(path string) (model.ContentType, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("classify %s: %w", path, err)
	}
	defer file.Close()

	header := make([]byte, classifyHeaderSize)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("classify %s: %w", path, err)
	}
	header = header[:n]

	switch {
	case filetype.IsVideo(header):
		return model.ContentVideo, nil
	case filetype.IsImage(header):
		return model.ContentImage, nil
	default:
		return "", fmt.Errorf("classify %s: not a recognizable video or image", path)
	}
}
