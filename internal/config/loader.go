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

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Configuration loading is hierarchical: a base file is read first, then
// an environment-specific file overwrites whatever it redefines. The
// directory prefix and runtime name come from environment variables, so
// test and local setups can point at their own files without flags.
const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	// EnvConfigFilePrefix names the env var holding the config directory
	// (e.g. "configs/").
	EnvConfigFilePrefix = "ASSEMBLY_CONFIG_PREFIX"
	// EnvConfigRuntime names the env var selecting the runtime overlay
	// (e.g. "local", "test"). Defaults to "test".
	EnvConfigRuntime = "ASSEMBLY_RUNTIME"
)

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// Load populates target from the base configuration file and the runtime
// overlay, in that order. Missing files are not an error: a fully
// defaulted Config is legitimate.
//
// Inputs:
//   - target: Pointer to the configuration struct to populate.
//
// Outputs:
//   - error: TOML decode failures, wrapped with the offending file name.
func Load(target interface{}) error {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	runtime := os.Getenv(EnvConfigRuntime)
	if runtime == "" {
		runtime = "test"
	}

	baseFile := prefix + ConfigFileBaseName + ConfigFileExtension
	overlayFile := prefix + ConfigFileBaseName + ConfigSeparator + runtime + ConfigFileExtension

	if fileExists(baseFile) {
		if _, err := toml.DecodeFile(baseFile, target); err != nil {
			return fmt.Errorf("decode base configuration %s: %w", baseFile, err)
		}
	}
	if fileExists(overlayFile) {
		if _, err := toml.DecodeFile(overlayFile, target); err != nil {
			return fmt.Errorf("decode runtime configuration %s: %w", overlayFile, err)
		}
	}
	return nil
}
