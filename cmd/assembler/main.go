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

// The assembler command renders one video from a JSON job manifest:
//
//	assembler -job path/to/job.json [-output path/to/final.mp4]
//
// The manifest carries the segment status maps, the word-timed
// transcript and the caption style name. Configuration (tool paths,
// output encode settings, caption styles) is loaded from the TOML files
// under the directory named by ASSEMBLY_CONFIG_PREFIX.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/jaycherian/go-video-assembly/internal/config"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
	"github.com/jaycherian/go-video-assembly/internal/core/workflow"
	"github.com/jaycherian/go-video-assembly/internal/telemetry"
)

func main() {
	jobPath := flag.String("job", "", "path to the JSON job manifest (required)")
	outputPath := flag.String("output", "", "override for the manifest's output path")
	flag.Parse()

	if *jobPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// A .env file is optional; it can set ASSEMBLY_CONFIG_PREFIX and
	// ASSEMBLY_RUNTIME for local runs.
	_ = godotenv.Load()

	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewConfig()
	if err := config.Load(cfg); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		log.Fatal(err)
	}

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg.Application.Name)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "error", err)
		}
	}()
	slog.Info("Tracing initialized")

	job, err := loadJob(*jobPath)
	if err != nil {
		slog.Error("Failed to load job manifest", "path", *jobPath, "error", err)
		log.Fatal(err)
	}
	if *outputPath != "" {
		job.OutputPath = *outputPath
	}

	if err := os.MkdirAll(cfg.TempDir(), 0o755); err != nil {
		log.Fatal(err)
	}
	if dir := filepath.Dir(job.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	render := workflow.NewRenderWorkflow(cfg, nil)
	slog.Info("Starting render", "job", job.ID, "output", job.OutputPath)

	out, err := render.Render(ctx, job)
	if err != nil {
		slog.Error("Render failed", "job", job.ID, "error", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// loadJob decodes a job manifest, assigning a fresh ID when the manifest
// carries none and rejecting one with no output path.
func loadJob(path string) (*model.RenderJob, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job := &model.RenderJob{}
	if err := json.Unmarshal(raw, job); err != nil {
		return nil, fmt.Errorf("decoding job manifest: %w", err)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.OutputPath == "" {
		return nil, fmt.Errorf("job manifest has no output_path")
	}
	return job, nil
}
