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


package routing

import (
	"strings"

	"github.com/patter-ai/patter/core"
)

// ScoreVendor counts how many of the vendor's criteria match the lead
// payload. Values compare trimmed and case-insensitive; a criterion with
// multiple accepted values matches when the lead value is any of them.
// An empty criteria list scores 0: such a vendor is always an eligible
// fallback, never preferred over a concrete match.
func ScoreVendor(vendor *core.Vendor, payload map[string]string) int {
	score := 0
	for _, criterion := range vendor.Criteria {
		leadValue, ok := payload[criterion.Field]
		if !ok {
			continue
		}
		if matchesAny(leadValue, criterion.Equals) {
			score++
		}
	}
	return score
}

// SelectVendor picks the highest-scoring active vendor from candidates,
// which must be in creation order: ties keep the earliest. Returns nil
// when no candidate is active.
func SelectVendor(candidates []*core.Vendor, payload map[string]string) *core.Vendor {
	var best *core.Vendor
	bestScore := -1

	for _, vendor := range candidates {
		if vendor == nil || vendor.Status != core.VendorStatusActive {
			continue
		}
		if score := ScoreVendor(vendor, payload); score > bestScore {
			best = vendor
			bestScore = score
		}
	}

	return best
}

// matchesAny reports whether value equals any accepted value, ignoring
// case and surrounding whitespace.
func matchesAny(value string, accepted []string) bool {
	normalized := normalizeValue(value)
	for _, candidate := range accepted {
		if normalizeValue(candidate) == normalized {
			return true
		}
	}
	return false
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
