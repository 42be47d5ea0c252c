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
	"fmt"
	"log/slog"

	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// RouteResult describes the outcome of routing a single lead.
type RouteResult struct {
	Routed   bool    `json:"routed"`
	VendorId core.ID `json:"vendor_id,omitempty"`
	Reason   string  `json:"reason"`
}

// Router assigns qualified leads to the best-matching vendor.
type Router struct {
	vendors storage.VendorRepository
	leads   storage.LeadRepository
	logger  *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithLogger sets the logger used for routing decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			return fmt.Errorf("%w: logger is nil", ErrInvalidConfig)
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a Router backed by the given repositories.
func NewRouter(vendors storage.VendorRepository, leads storage.LeadRepository, opts ...Option) (*Router, error) {
	if vendors == nil {
		return nil, ErrVendorRepositoryRequired
	}
	if leads == nil {
		return nil, ErrLeadRepositoryRequired
	}

	r := &Router{
		vendors: vendors,
		leads:   leads,
		logger:  slog.Default().With("component", "routing"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SelectForAgent scores the agent's active vendors against the lead payload
// and returns the best match, or nil when the agent has no active vendors.
func (r *Router) SelectForAgent(ctx context.Context, agentID core.ID, payload map[string]string) (*core.Vendor, error) {
	candidates, err := r.vendors.GetVendorsByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("loading vendors for agent %s: %w", agentID, err)
	}
	return SelectVendor(candidates, payload), nil
}

// RouteLead assigns a lead to the best-matching vendor and marks it
// contacted. When no active vendor exists the lead keeps its status and
// the result carries the reason.
func (r *Router) RouteLead(ctx context.Context, leadID core.ID) (*RouteResult, error) {
	lead, err := r.leads.GetLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("loading lead %s: %w", leadID, err)
	}

	vendor, err := r.SelectForAgent(ctx, lead.AgentId, lead.Payload)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		r.logger.InfoContext(ctx, "no active vendor for lead",
			"lead_id", lead.Id,
			"agent_id", lead.AgentId)
		return &RouteResult{
			Routed: false,
			Reason: "no active vendors for agent",
		}, nil
	}

	if _, err := r.leads.UpdateLeadStatus(ctx, lead.Id, core.LeadStatusContacted); err != nil {
		return nil, fmt.Errorf("marking lead %s contacted: %w", lead.Id, err)
	}

	score := ScoreVendor(vendor, lead.Payload)
	r.logger.InfoContext(ctx, "lead routed",
		"lead_id", lead.Id,
		"vendor_id", vendor.Id,
		"score", score)

	return &RouteResult{
		Routed:   true,
		VendorId: vendor.Id,
		Reason:   fmt.Sprintf("matched %d criteria", score),
	}, nil
}
