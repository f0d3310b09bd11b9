// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embed

import (
	"errors"
	"strings"
)

// Config holds configuration for remote embedding providers.
type Config struct {
	// Host is the base URL of the OpenAI-compatible embedding API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Model is the embedding model identifier.
	// Example: "embeddinggemma", "text-embedding-3-small"
	Model string

	// Dimensions is the vector length the model produces.
	// Default: DefaultDimensions
	Dimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithConfigDimensions sets the expected vector length.
func WithConfigDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// DefaultConfig returns a Config with defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:       "http://localhost:11434/v1",
		Model:      "embeddinggemma",
		Dimensions: DefaultDimensions,
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form. It adds the /v1
// suffix to the host if missing, which OpenAI-compatible APIs (Ollama,
// LocalAI, vLLM) require.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("embed config: Host is required")
	}
	if c.Model == "" {
		return errors.New("embed config: Model is required")
	}
	if c.Dimensions <= 0 {
		return ErrInvalidDimensions
	}
	return nil
}
