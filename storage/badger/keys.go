package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/patter-ai/patter/core"
)

// Key prefixes for different data types
const (
	agentPrefix        = "agrec"
	documentPrefix     = "docrec"
	documentAgentIdx   = "docag"
	chunkPrefix        = "chkrec"
	chunkDocumentIdx   = "chkdoc"
	chunkAgentIdx      = "chkag"
	conversationPrefix = "convrec"
	conversationTuple  = "convtup"
	messagePrefix      = "msgrec"
	messageConvIdx     = "msgconv"
	leadPrefix         = "ldrec"
	leadTuple          = "ldtup"
	leadAgentIdx       = "ldag"
	vendorPrefix       = "vndrec"
	vendorAgentIdx     = "vndag"
)

// makeRecordKey generates a primary record key.
func makeRecordKey(prefix string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s", prefix, id))
}

// makeScopeKey generates an index key under a scope: prefix:scope:id.
func makeScopeKey(prefix string, scope, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", prefix, scope, id))
}

// makeScopePrefix generates the iteration prefix for a scope.
func makeScopePrefix(prefix string, scope core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", prefix, scope))
}

// makeTimeKey generates a composite index key under a scope:
// prefix:scope:timestamp:id. The timestamp is written in BigEndian so
// lexicographic key order matches chronological order; the id suffix
// keeps keys unique within one microsecond.
func makeTimeKey(prefix string, scope core.ID, timestamp time.Time, id core.ID) []byte {
	head := []byte(fmt.Sprintf("%s:%s:", prefix, scope))
	buf := make([]byte, len(head)+8+len(id))
	offset := copy(buf, head)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(id))
	return buf
}

// makePositionKey generates a composite index key ordered by an integer
// position: prefix:scope:position:id.
func makePositionKey(prefix string, scope core.ID, position int, id core.ID) []byte {
	head := []byte(fmt.Sprintf("%s:%s:", prefix, scope))
	buf := make([]byte, len(head)+4+len(id))
	offset := copy(buf, head)
	binary.BigEndian.PutUint32(buf[offset:], uint32(position))
	offset += 4
	copy(buf[offset:], []byte(id))
	return buf
}

// makeConversationTupleKey generates the lookup key for the
// (agent, client, channel) tuple. NUL separators keep client ids
// containing ':' from colliding.
func makeConversationTupleKey(agentID core.ID, clientID, channel string) []byte {
	return []byte(fmt.Sprintf("%s:%s\x00%s\x00%s", conversationTuple, agentID, clientID, channel))
}

// makeLeadTupleKey generates the lookup key for the (agent, conversation)
// pair. At most one lead exists per pair.
func makeLeadTupleKey(agentID, conversationID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", leadTuple, agentID, conversationID))
}
