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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patter-ai/patter/core"
)

func activeVendor(name string, criteria ...core.VendorCriterion) *core.Vendor {
	return &core.Vendor{
		Id:       core.NewID(),
		Name:     name,
		Criteria: criteria,
		Status:   core.VendorStatusActive,
	}
}

func TestScoreVendorCountsMatches(t *testing.T) {
	vendor := activeVendor("movers",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc", "jersey city"}},
		core.VendorCriterion{Field: "move_size", Equals: []string{"studio"}},
		core.VendorCriterion{Field: "budget", Equals: []string{"high"}},
	)

	payload := map[string]string{
		"city":      "NYC",
		"move_size": "studio",
		"budget":    "low",
	}

	assert.Equal(t, 2, ScoreVendor(vendor, payload))
}

func TestScoreVendorTrimsAndIgnoresCase(t *testing.T) {
	vendor := activeVendor("movers",
		core.VendorCriterion{Field: "city", Equals: []string{" New York "}},
	)

	assert.Equal(t, 1, ScoreVendor(vendor, map[string]string{"city": "new york"}))
	assert.Equal(t, 1, ScoreVendor(vendor, map[string]string{"city": "NEW YORK  "}))
	assert.Equal(t, 0, ScoreVendor(vendor, map[string]string{"city": "newark"}))
}

func TestScoreVendorMissingFieldDoesNotCount(t *testing.T) {
	vendor := activeVendor("movers",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc"}},
	)

	assert.Equal(t, 0, ScoreVendor(vendor, map[string]string{"budget": "low"}))
}

func TestSelectVendorPrefersConcreteMatchOverCatchAll(t *testing.T) {
	matcher := activeVendor("city matcher",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc"}},
	)
	catchAll := activeVendor("catch all")

	selected := SelectVendor([]*core.Vendor{catchAll, matcher}, map[string]string{"city": "NYC"})

	assert.Equal(t, matcher.Id, selected.Id)
}

func TestSelectVendorCatchAllWinsWhenNothingMatches(t *testing.T) {
	matcher := activeVendor("city matcher",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc"}},
	)
	catchAll := activeVendor("catch all")

	selected := SelectVendor([]*core.Vendor{matcher, catchAll}, map[string]string{"city": "boston"})

	// Both score 0; the first in creation order wins.
	assert.Equal(t, matcher.Id, selected.Id)
}

func TestSelectVendorTiesKeepCreationOrder(t *testing.T) {
	first := activeVendor("first",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc"}},
	)
	second := activeVendor("second",
		core.VendorCriterion{Field: "city", Equals: []string{"nyc"}},
	)

	selected := SelectVendor([]*core.Vendor{first, second}, map[string]string{"city": "nyc"})

	assert.Equal(t, first.Id, selected.Id)
}

func TestSelectVendorSkipsInactive(t *testing.T) {
	inactive := &core.Vendor{
		Id:     core.NewID(),
		Name:   "retired",
		Status: core.VendorStatusInactive,
		Criteria: []core.VendorCriterion{
			{Field: "city", Equals: []string{"nyc"}},
		},
	}
	fallback := activeVendor("fallback")

	selected := SelectVendor([]*core.Vendor{inactive, fallback}, map[string]string{"city": "nyc"})

	assert.Equal(t, fallback.Id, selected.Id)
}

func TestSelectVendorNilWhenNoActiveVendors(t *testing.T) {
	inactive := &core.Vendor{
		Id:     core.NewID(),
		Name:   "retired",
		Status: core.VendorStatusInactive,
	}

	assert.Nil(t, SelectVendor(nil, map[string]string{"city": "nyc"}))
	assert.Nil(t, SelectVendor([]*core.Vendor{inactive}, map[string]string{"city": "nyc"}))
}
