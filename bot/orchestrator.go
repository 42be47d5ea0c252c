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


package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/intake"
	"github.com/patter-ai/patter/retrieval"
	"github.com/patter-ai/patter/routing"
	"github.com/patter-ai/patter/storage"
)

const (
	defaultHistoryTurns = 6
	defaultTopK         = 10
	defaultTemperature  = 0.2
)

// backCommand is the sole explicit user command: it pops the last answered
// question off the undo stack and clears that answer.
const backCommand = "back"

// Searcher retrieves relevant passages for a chat turn. Satisfied by
// retrieval.Retriever.
type Searcher interface {
	SearchHybrid(ctx context.Context, agentID core.ID, query string, topK int) ([]*retrieval.Result, error)
}

// ChatRequest identifies the conversation for one inbound message. The
// conversation is found or created from the (agent, client, channel)
// tuple.
type ChatRequest struct {
	AgentId  core.ID
	ClientId string
	Channel  string
	Text     string
}

// ChatReply is the outcome of one conversation turn. The user always
// receives reply text; provider failures degrade to a fallback, never to
// an error.
type ChatReply struct {
	ConversationId core.ID              `json:"conversationId"`
	Text           string               `json:"uiText"`
	Citations      []retrieval.Citation `json:"citations"`
	DoneSections   []string             `json:"doneSections"`
	IntakeComplete bool                 `json:"intakeComplete"`
}

// turnOutput is the JSON contract the model must return. The boundary is
// untrusted: extra and missing keys are tolerated and extraction failure
// yields a zero value, never a crashed turn.
type turnOutput struct {
	Assistant      string          `json:"assistant"`
	LeadUpdates    []intake.Update `json:"lead_updates"`
	DynUpdates     []intake.Update `json:"dyn_updates"`
	IntakeComplete bool            `json:"intake_complete"`
	DoneSections   []string        `json:"done_sections"`
}

// Engine is the per-turn conversation orchestrator. Each turn loads
// persisted intake state, retrieves passages when the agent has a corpus,
// makes one consolidated model call, merges the structured result into
// both schemas, persists state, upserts the lead, and returns a reply.
//
// The engine does not serialize turns of the same conversation; callers
// that can receive concurrent messages for one conversation must do so.
type Engine struct {
	agents        storage.AgentRepository
	conversations storage.ConversationRepository
	leads         storage.LeadRepository
	chunks        storage.ChunkRepository
	vendors       storage.VendorRepository
	searcher      Searcher
	chat          ai.ChatModel

	pool   *ants.Pool
	logger *slog.Logger

	historyTurns int
	topK         int
	temperature  float64
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger used for turn processing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return fmt.Errorf("%w: logger is nil", ErrInvalidConfig)
		}
		e.logger = logger
		return nil
	}
}

// WithSearcher enables passage retrieval for agents with a corpus.
func WithSearcher(searcher Searcher) Option {
	return func(e *Engine) error {
		e.searcher = searcher
		return nil
	}
}

// WithChatModel sets the language model. Without one the engine still
// produces fallback replies.
func WithChatModel(chat ai.ChatModel) Option {
	return func(e *Engine) error {
		e.chat = chat
		return nil
	}
}

// WithVendors enables vendor suggestions on qualified leads.
func WithVendors(vendors storage.VendorRepository) Option {
	return func(e *Engine) error {
		e.vendors = vendors
		return nil
	}
}

// WithHistoryTurns bounds how many exchanges of history enter the prompt.
func WithHistoryTurns(turns int) Option {
	return func(e *Engine) error {
		if turns <= 0 {
			return fmt.Errorf("%w: history turns must be positive, got %d", ErrInvalidConfig, turns)
		}
		e.historyTurns = turns
		return nil
	}
}

// WithTopK sets how many passages retrieval returns per turn.
func WithTopK(topK int) Option {
	return func(e *Engine) error {
		if topK <= 0 {
			return fmt.Errorf("%w: topK must be positive, got %d", ErrInvalidConfig, topK)
		}
		e.topK = topK
		return nil
	}
}

// WithTemperature sets the model sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(e *Engine) error {
		if temperature < 0 || temperature > 2 {
			return fmt.Errorf("%w: temperature must be in [0, 2], got %f", ErrInvalidConfig, temperature)
		}
		e.temperature = temperature
		return nil
	}
}

// WithPoolSize sets the worker pool size for asynchronous turns.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return fmt.Errorf("%w: pool size must be positive, got %d", ErrInvalidConfig, size)
		}
		pool, err := ants.NewPool(size, ants.WithNonblocking(false))
		if err != nil {
			return fmt.Errorf("creating worker pool: %w", err)
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// NewEngine creates a conversation engine backed by the given repositories.
func NewEngine(
	agents storage.AgentRepository,
	conversations storage.ConversationRepository,
	leads storage.LeadRepository,
	chunks storage.ChunkRepository,
	opts ...Option,
) (*Engine, error) {
	if agents == nil {
		return nil, ErrAgentRepositoryRequired
	}
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if leads == nil {
		return nil, ErrLeadRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}

	e := &Engine{
		agents:        agents,
		conversations: conversations,
		leads:         leads,
		chunks:        chunks,
		logger:        slog.Default().With("component", "bot"),
		historyTurns:  defaultHistoryTurns,
		topK:          defaultTopK,
		temperature:   defaultTemperature,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			if e.pool != nil {
				e.pool.Release()
			}
			return nil, err
		}
	}

	if e.pool == nil {
		size := runtime.NumCPU()
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size, ants.WithNonblocking(false))
		if err != nil {
			return nil, fmt.Errorf("creating worker pool: %w", err)
		}
		e.pool = pool
	}

	return e, nil
}

// Release shuts down the worker pool.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Chat runs one synchronous conversation turn.
func (e *Engine) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyMessage
	}

	agent, err := e.agents.GetAgent(ctx, req.AgentId)
	if err != nil {
		return nil, fmt.Errorf("loading agent %s: %w", req.AgentId, err)
	}

	conv, err := e.conversations.GetOrCreateConversation(ctx, agent.Id, req.ClientId, req.Channel)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation: %w", err)
	}

	state, fresh := LoadState(conv.Meta, agent)
	if fresh {
		e.logger.DebugContext(ctx, "seeding conversation state",
			"conversation_id", conv.Id, "agent_id", agent.Id)
	}

	history, err := e.conversations.GetRecentMessages(ctx, conv.Id, 2*e.historyTurns)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(req.Text), backCommand) {
		e.undoLastAnswer(ctx, state, conv.Id)
	}

	passages := e.retrievePassages(ctx, agent.Id, req.Text)
	output := e.callModel(ctx, agent, state, passages, history, req.Text)

	e.applyUpdates(state, output)
	state.MarkSectionsDone(output.DoneSections)

	conv.Meta = state.Encode()
	if _, err := e.conversations.UpdateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("persisting conversation state: %w", err)
	}

	intakeComplete := output.IntakeComplete || state.LeadSchema.RequiredComplete()
	lead := e.upsertLead(ctx, agent.Id, conv.Id, state, intakeComplete)

	reply := e.composeReply(ctx, agent, output, passages, lead, intakeComplete)
	citations := retrieval.ToCitations(passages)

	if err := e.recordTurn(ctx, conv.Id, req.Text, reply, citations); err != nil {
		// The reply is already computed and state persisted; a failed
		// transcript write is logged, not surfaced to the end user.
		e.logger.ErrorContext(ctx, "recording turn failed",
			"conversation_id", conv.Id, "err", err)
	}

	return &ChatReply{
		ConversationId: conv.Id,
		Text:           reply,
		Citations:      citations,
		DoneSections:   state.CompletedSections,
		IntakeComplete: intakeComplete,
	}, nil
}

// ChatAsync runs a turn on the worker pool without blocking the caller.
// The callback receives the reply or error; a nil callback logs errors.
func (e *Engine) ChatAsync(ctx context.Context, req ChatRequest, callback func(*ChatReply, error)) error {
	return e.pool.Submit(func() {
		reply, err := e.Chat(ctx, req)
		if callback != nil {
			callback(reply, err)
			return
		}
		if err != nil {
			e.logger.ErrorContext(ctx, "async turn failed",
				"agent_id", req.AgentId, "client_id", req.ClientId, "err", err)
		}
	})
}

// undoLastAnswer pops one question id off the stack and clears its answer,
// checking the lead schema before the dynamic one.
func (e *Engine) undoLastAnswer(ctx context.Context, state *State, conversationID core.ID) {
	questionId, ok := state.PopStack()
	if !ok {
		return
	}
	if !state.LeadSchema.ClearAnswer(questionId) {
		state.DynSchema.ClearAnswer(questionId)
	}
	e.logger.DebugContext(ctx, "answer undone",
		"conversation_id", conversationID, "question_id", questionId)
}

// retrievePassages runs hybrid retrieval for agents with at least one
// chunk. Retrieval failures degrade to no passages; the conversation must
// always produce a reply.
func (e *Engine) retrievePassages(ctx context.Context, agentID core.ID, query string) []*retrieval.Result {
	if e.searcher == nil {
		return nil
	}

	count, err := e.chunks.CountChunksByAgent(ctx, agentID)
	if err != nil || count == 0 {
		return nil
	}

	passages, err := e.searcher.SearchHybrid(ctx, agentID, query, e.topK)
	if err != nil {
		e.logger.WarnContext(ctx, "retrieval failed, continuing without passages",
			"agent_id", agentID, "err", err)
		return nil
	}
	return passages
}

// callModel makes the single consolidated model call and extracts the
// structured turn output. Any failure yields an empty output.
func (e *Engine) callModel(ctx context.Context, agent *core.Agent, state *State, passages []*retrieval.Result, history []*core.Message, userMessage string) *turnOutput {
	output := &turnOutput{}
	if e.chat == nil {
		return output
	}

	lang := detectLanguage(userMessage)
	system := buildSystemPrompt(agent, lang)
	user := buildUserPrompt(state, passages, history, userMessage)

	raw, err := e.chat.Complete(ctx, system, user, e.temperature)
	if err != nil {
		e.logger.WarnContext(ctx, "model call failed, degrading to fallback reply",
			"agent_id", agent.Id, "err", err)
		return output
	}

	if !extractFirstJSON(raw, output) {
		e.logger.WarnContext(ctx, "no structured output in model reply",
			"agent_id", agent.Id)
		return &turnOutput{Assistant: strings.TrimSpace(raw)}
	}
	return output
}

// applyUpdates merges the model's proposed slot updates into both schemas
// and pushes every applied question id onto the undo stack. Lead updates
// may only touch configured fields; dynamic updates create missing
// questions in the extras section.
func (e *Engine) applyUpdates(state *State, output *turnOutput) {
	state.LeadSchema = intake.Merge(state.LeadSchema, output.LeadUpdates, intake.MergeOptions{})
	state.DynSchema = intake.Merge(state.DynSchema, output.DynUpdates, intake.MergeOptions{CreateMissing: true})

	for _, u := range output.LeadUpdates {
		if q := state.LeadSchema.Find(u.QuestionId); q != nil && q.Collected {
			state.PushStack(u.QuestionId)
		}
	}
	for _, u := range output.DynUpdates {
		if q := state.DynSchema.Find(u.QuestionId); q != nil && q.Collected {
			state.PushStack(u.QuestionId)
		}
	}
}

// upsertLead flattens both schemas' collected answers into the lead
// payload. No lead exists until at least one field is collected. Returns
// the stored lead or nil.
func (e *Engine) upsertLead(ctx context.Context, agentID, conversationID core.ID, state *State, intakeComplete bool) *core.Lead {
	payload := state.LeadSchema.CollectedAnswers()
	for id, answer := range state.DynSchema.CollectedAnswers() {
		payload[id] = answer
	}
	if len(payload) == 0 {
		return nil
	}

	status := core.LeadStatusNew
	if intakeComplete {
		status = core.LeadStatusQualified
	}

	lead, err := e.leads.UpsertLead(ctx, &core.Lead{
		AgentId:        agentID,
		ConversationId: conversationID,
		Payload:        payload,
		Status:         status,
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "lead upsert failed",
			"agent_id", agentID, "conversation_id", conversationID, "err", err)
		return nil
	}
	return lead
}

// composeReply picks the user-visible text: the model's reply, or a
// fallback naming the passage count, or the agent's welcome message. When
// intake completes, the post-collection text and a vendor suggestion are
// appended.
func (e *Engine) composeReply(ctx context.Context, agent *core.Agent, output *turnOutput, passages []*retrieval.Result, lead *core.Lead, intakeComplete bool) string {
	reply := strings.TrimSpace(output.Assistant)
	if reply == "" {
		if len(passages) > 0 {
			reply = fmt.Sprintf("Thanks for your message. I found %d relevant passages.", len(passages))
		} else {
			reply = agent.WelcomeMessage
		}
	}

	if intakeComplete && lead != nil {
		if agent.PostCollectionText != "" {
			reply = reply + "\n\n" + agent.PostCollectionText
		}
		if suggestion := e.vendorSuggestion(ctx, agent.Id, lead.Payload); suggestion != "" {
			reply = reply + "\n\n" + suggestion
		}
	}

	return reply
}

// vendorSuggestion scores the agent's active vendors against the lead
// payload and names the best match, or returns "" when none qualifies.
func (e *Engine) vendorSuggestion(ctx context.Context, agentID core.ID, payload map[string]string) string {
	if e.vendors == nil {
		return ""
	}

	candidates, err := e.vendors.GetVendorsByAgent(ctx, agentID)
	if err != nil {
		e.logger.WarnContext(ctx, "vendor lookup failed",
			"agent_id", agentID, "err", err)
		return ""
	}

	vendor := routing.SelectVendor(candidates, payload)
	if vendor == nil {
		return ""
	}
	return fmt.Sprintf("Based on what you shared, %s looks like a good match for you.", vendor.Name)
}

// recordTurn appends the user message and assistant reply to the
// conversation transcript.
func (e *Engine) recordTurn(ctx context.Context, conversationID core.ID, userText, replyText string, citations []retrieval.Citation) error {
	citationsJSON := ""
	if len(citations) > 0 {
		if raw, err := json.Marshal(citations); err == nil {
			citationsJSON = string(raw)
		}
	}

	_, err := e.conversations.AddMessages(ctx,
		&core.Message{ConversationId: conversationID, Role: core.RoleUser, Text: userText},
		&core.Message{ConversationId: conversationID, Role: core.RoleAssistant, Text: replyText, CitationsJSON: citationsJSON},
	)
	return err
}
