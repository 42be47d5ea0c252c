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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patter-ai/patter/core"
	storagebadger "github.com/patter-ai/patter/storage/badger"
)

func setupRouter(t *testing.T) (*Router, *storagebadger.MemoryRepositories) {
	t.Helper()

	repos, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	router, err := NewRouter(repos.Vendors, repos.Leads)
	require.NoError(t, err)

	return router, repos
}

func seedLead(t *testing.T, repos *storagebadger.MemoryRepositories, agentID core.ID, payload map[string]string) *core.Lead {
	t.Helper()

	lead, err := repos.Leads.UpsertLead(context.Background(), &core.Lead{
		AgentId:        agentID,
		ConversationId: core.NewID(),
		Payload:        payload,
		Status:         core.LeadStatusQualified,
	})
	require.NoError(t, err)
	return lead
}

func TestNewRouterValidation(t *testing.T) {
	repos, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	_, err = NewRouter(nil, repos.Leads)
	assert.ErrorIs(t, err, ErrVendorRepositoryRequired)

	_, err = NewRouter(repos.Vendors, nil)
	assert.ErrorIs(t, err, ErrLeadRepositoryRequired)

	_, err = NewRouter(repos.Vendors, repos.Leads, WithLogger(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRouteLeadMarksContacted(t *testing.T) {
	router, repos := setupRouter(t)
	ctx := context.Background()
	agentID := core.NewID()

	catchAll, err := repos.Vendors.AddVendor(ctx, &core.Vendor{
		AgentId: agentID,
		Name:    "catch all",
		Status:  core.VendorStatusActive,
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	matcher, err := repos.Vendors.AddVendor(ctx, &core.Vendor{
		AgentId: agentID,
		Name:    "city matcher",
		Status:  core.VendorStatusActive,
		Criteria: []core.VendorCriterion{
			{Field: "city", Equals: []string{"nyc"}},
		},
	})
	require.NoError(t, err)

	lead := seedLead(t, repos, agentID, map[string]string{"city": "NYC"})

	result, err := router.RouteLead(ctx, lead.Id)
	require.NoError(t, err)

	assert.True(t, result.Routed)
	assert.Equal(t, matcher.Id, result.VendorId)
	assert.NotEqual(t, catchAll.Id, result.VendorId)
	assert.Equal(t, "matched 1 criteria", result.Reason)

	updated, err := repos.Leads.GetLead(ctx, lead.Id)
	require.NoError(t, err)
	assert.Equal(t, core.LeadStatusContacted, updated.Status)
}

func TestRouteLeadNoActiveVendors(t *testing.T) {
	router, repos := setupRouter(t)
	ctx := context.Background()
	agentID := core.NewID()

	_, err := repos.Vendors.AddVendor(ctx, &core.Vendor{
		AgentId: agentID,
		Name:    "retired",
		Status:  core.VendorStatusInactive,
	})
	require.NoError(t, err)

	lead := seedLead(t, repos, agentID, map[string]string{"city": "nyc"})

	result, err := router.RouteLead(ctx, lead.Id)
	require.NoError(t, err)

	assert.False(t, result.Routed)
	assert.Empty(t, result.VendorId)
	assert.NotEmpty(t, result.Reason)

	// The lead keeps its status when routing finds no vendor.
	unchanged, err := repos.Leads.GetLead(ctx, lead.Id)
	require.NoError(t, err)
	assert.Equal(t, core.LeadStatusQualified, unchanged.Status)
}

func TestRouteLeadUnknownLead(t *testing.T) {
	router, _ := setupRouter(t)

	_, err := router.RouteLead(context.Background(), core.NewID())
	assert.Error(t, err)
}

func TestSelectForAgentScopedToAgent(t *testing.T) {
	router, repos := setupRouter(t)
	ctx := context.Background()
	agentID := core.NewID()
	otherAgent := core.NewID()

	_, err := repos.Vendors.AddVendor(ctx, &core.Vendor{
		AgentId: otherAgent,
		Name:    "someone else's vendor",
		Status:  core.VendorStatusActive,
	})
	require.NoError(t, err)

	selected, err := router.SelectForAgent(ctx, agentID, map[string]string{"city": "nyc"})
	require.NoError(t, err)
	assert.Nil(t, selected)
}
