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


package storage

import (
	"github.com/patter-ai/patter/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalAgent serializes an Agent to bytes.
func MarshalAgent(agent *core.Agent) []byte {
	buf := make([]byte, core.AgentMUS.Size(*agent))
	core.AgentMUS.Marshal(*agent, buf)
	return buf
}

// UnmarshalAgent deserializes an Agent from bytes.
func UnmarshalAgent(data []byte) (*core.Agent, error) {
	agent, _, err := core.AgentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalMessage serializes a Message to bytes.
func MarshalMessage(msg *core.Message) []byte {
	buf := make([]byte, core.MessageMUS.Size(*msg))
	core.MessageMUS.Marshal(*msg, buf)
	return buf
}

// UnmarshalMessage deserializes a Message from bytes.
func UnmarshalMessage(data []byte) (*core.Message, error) {
	msg, _, err := core.MessageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarshalConversation serializes a Conversation to bytes.
func MarshalConversation(conv *core.Conversation) []byte {
	buf := make([]byte, core.ConversationMUS.Size(*conv))
	core.ConversationMUS.Marshal(*conv, buf)
	return buf
}

// UnmarshalConversation deserializes a Conversation from bytes.
func UnmarshalConversation(data []byte) (*core.Conversation, error) {
	conv, _, err := core.ConversationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// MarshalLead serializes a Lead to bytes.
func MarshalLead(lead *core.Lead) []byte {
	buf := make([]byte, core.LeadMUS.Size(*lead))
	core.LeadMUS.Marshal(*lead, buf)
	return buf
}

// UnmarshalLead deserializes a Lead from bytes.
func UnmarshalLead(data []byte) (*core.Lead, error) {
	lead, _, err := core.LeadMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// MarshalVendor serializes a Vendor to bytes.
func MarshalVendor(vendor *core.Vendor) []byte {
	buf := make([]byte, core.VendorMUS.Size(*vendor))
	core.VendorMUS.Marshal(*vendor, buf)
	return buf
}

// UnmarshalVendor deserializes a Vendor from bytes.
func UnmarshalVendor(data []byte) (*core.Vendor, error) {
	vendor, _, err := core.VendorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
