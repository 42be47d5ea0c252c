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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain records stored in BadgerDB. Field order
// is the wire format; append new fields at the end only.

var (
	// IDMUS serializes an ID.
	IDMUS = idMUS{}
	// AgentMUS serializes an Agent.
	AgentMUS = agentMUS{}
	// DocumentMUS serializes a Document.
	DocumentMUS = documentMUS{}
	// ChunkMUS serializes a Chunk.
	ChunkMUS = chunkMUS{}
	// MessageMUS serializes a Message.
	MessageMUS = messageMUS{}
	// ConversationMUS serializes a Conversation.
	ConversationMUS = conversationMUS{}
	// LeadMUS serializes a Lead.
	LeadMUS = leadMUS{}
	// VendorMUS serializes a Vendor.
	VendorMUS = vendorMUS{}

	timeMUS      = timeMicroMUS{}
	float32sMUS  = ord.NewSliceSer[float32](varint.Float32)
	stringsMUS   = ord.NewSliceSer[string](ord.String)
	stringMapMUS = ord.NewMapSer[string, string](ord.String, ord.String)
	criterionMUS = vendorCriterionMUS{}
	criteriaMUS  = ord.NewSliceSer[VendorCriterion](criterionMUS)
)

// timeMicroMUS encodes timestamps as varint unix microseconds, UTC on read.
type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMicroMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (timeMicroMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

func (timeMicroMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return ord.String.Marshal(string(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return ID(s), n, err
}

func (idMUS) Size(v ID) int {
	return ord.String.Size(string(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

type agentMUS struct{}

func (agentMUS) Marshal(v Agent, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.String.Marshal(v.WelcomeMessage, bs[n:])
	n += ord.String.Marshal(v.SpecialInstructions, bs[n:])
	n += ord.String.Marshal(v.PostCollectionText, bs[n:])
	n += ord.String.Marshal(v.LeadSchemaJSON, bs[n:])
	n += ord.String.Marshal(v.DynSchemaJSON, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (agentMUS) Unmarshal(bs []byte) (v Agent, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = AgentStatus(status)
	v.WelcomeMessage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SpecialInstructions, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PostCollectionText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LeadSchemaJSON, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DynSchemaJSON, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (agentMUS) Size(v Agent) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Name) +
		ord.String.Size(string(v.Status)) +
		ord.String.Size(v.WelcomeMessage) +
		ord.String.Size(v.SpecialInstructions) +
		ord.String.Size(v.PostCollectionText) +
		ord.String.Size(v.LeadSchemaJSON) +
		ord.String.Size(v.DynSchemaJSON) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

type documentMUS struct{}

func (documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.AgentId, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.SourceURI, bs[n:])
	n += ord.String.Marshal(v.RawText, bs[n:])
	n += stringMapMUS.Marshal(v.Metadata, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.AgentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceURI, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RawText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = stringMapMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(v Document) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.AgentId) +
		ord.String.Size(v.Title) +
		ord.String.Size(v.SourceURI) +
		ord.String.Size(v.RawText) +
		stringMapMUS.Size(v.Metadata) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

type chunkMUS struct{}

func (chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += IDMUS.Marshal(v.AgentId, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(v.PositionIndex, bs[n:])
	n += float32sMUS.Marshal(v.Embedding, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AgentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PositionIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Embedding, n1, err = float32sMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(v Chunk) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.DocumentId) +
		IDMUS.Size(v.AgentId) +
		ord.String.Size(v.Content) +
		varint.Int.Size(v.PositionIndex) +
		float32sMUS.Size(v.Embedding) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

type messageMUS struct{}

func (messageMUS) Marshal(v Message, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.ConversationId, bs[n:])
	n += ord.String.Marshal(string(v.Role), bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.CitationsJSON, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	return n
}

func (messageMUS) Unmarshal(bs []byte) (v Message, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ConversationId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var role string
	role, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Role = MessageRole(role)
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CitationsJSON, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (messageMUS) Size(v Message) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.ConversationId) +
		ord.String.Size(string(v.Role)) +
		ord.String.Size(v.Text) +
		ord.String.Size(v.CitationsJSON) +
		timeMUS.Size(v.InsertedAt)
}

type conversationMUS struct{}

func (conversationMUS) Marshal(v Conversation, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.AgentId, bs[n:])
	n += ord.String.Marshal(v.ClientId, bs[n:])
	n += ord.String.Marshal(v.Channel, bs[n:])
	n += ord.String.Marshal(v.Meta, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (conversationMUS) Unmarshal(bs []byte) (v Conversation, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.AgentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ClientId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Channel, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Meta, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (conversationMUS) Size(v Conversation) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.AgentId) +
		ord.String.Size(v.ClientId) +
		ord.String.Size(v.Channel) +
		ord.String.Size(v.Meta) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

type leadMUS struct{}

func (leadMUS) Marshal(v Lead, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.AgentId, bs[n:])
	n += IDMUS.Marshal(v.ConversationId, bs[n:])
	n += stringMapMUS.Marshal(v.Payload, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (leadMUS) Unmarshal(bs []byte) (v Lead, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.AgentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ConversationId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Payload, n1, err = stringMapMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = LeadStatus(status)
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (leadMUS) Size(v Lead) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.AgentId) +
		IDMUS.Size(v.ConversationId) +
		stringMapMUS.Size(v.Payload) +
		ord.String.Size(string(v.Status)) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

type vendorCriterionMUS struct{}

func (vendorCriterionMUS) Marshal(v VendorCriterion, bs []byte) (n int) {
	n = ord.String.Marshal(v.Field, bs)
	n += stringsMUS.Marshal(v.Equals, bs[n:])
	return n
}

func (vendorCriterionMUS) Unmarshal(bs []byte) (v VendorCriterion, n int, err error) {
	var n1 int
	v.Field, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Equals, n1, err = stringsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (vendorCriterionMUS) Size(v VendorCriterion) int {
	return ord.String.Size(v.Field) + stringsMUS.Size(v.Equals)
}

func (vendorCriterionMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = stringsMUS.Skip(bs[n:])
	n += n1
	return
}

type vendorMUS struct{}

func (vendorMUS) Marshal(v Vendor, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.AgentId, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += criteriaMUS.Marshal(v.Criteria, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (vendorMUS) Unmarshal(bs []byte) (v Vendor, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.AgentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Criteria, n1, err = criteriaMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = VendorStatus(status)
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (vendorMUS) Size(v Vendor) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.AgentId) +
		ord.String.Size(v.Name) +
		criteriaMUS.Size(v.Criteria) +
		ord.String.Size(string(v.Status)) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}
