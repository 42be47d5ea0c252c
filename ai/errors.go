// Copyright 2025 Patter AI
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


package ai

import "errors"

var (
	// ErrProviderUnavailable indicates the backing provider is unreachable
	// or misconfigured (missing credentials, bad host). The conversational
	// path fails open on this error; ingestion fails closed.
	ErrProviderUnavailable = errors.New("ai provider unavailable")

	// ErrEmptyResponse indicates the provider returned no choices.
	ErrEmptyResponse = errors.New("provider returned empty response")
)
