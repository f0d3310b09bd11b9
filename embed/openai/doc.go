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


// Package openai implements embed.Embedder against OpenAI-compatible APIs.
//
// It uses the langchaingo library to talk to OpenAI or compatible services
// (Ollama, LocalAI, vLLM). Deployments that prefer model embeddings over
// the local lexical embedder can plug this in wherever an embed.Embedder
// is accepted.
//
//	config := embed.NewConfig(
//	    embed.WithHost("http://localhost:11434"), // /v1 added automatically
//	    embed.WithModel("embeddinggemma"),
//	    embed.WithConfigDimensions(768),
//	)
//	embedder, err := openai.NewEmbedder(config)
package openai
