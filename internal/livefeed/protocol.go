package livefeed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// recordSeparator terminates every JSON record on the hub connection.
const recordSeparator = "\x1e"

const (
	messageInvocation = 1
	messagePing       = 6
	messageClose      = 7
)

const (
	targetMatchUpdate = "ReceiveMatchUpdate"
	targetMatchAction = "ReceiveMatchAction"
	targetJoinCourt   = "JoinCourtRoom"
)

// inbound is the part of a hub record we care about. The handshake reply is an
// empty object, so Type 0 with no Error is a successful handshake.
type inbound struct {
	Type      int               `json:"type"`
	Target    string            `json:"target"`
	Arguments []json.RawMessage `json:"arguments"`
	Error     string            `json:"error"`
}

type invocation struct {
	Type         int    `json:"type"`
	Target       string `json:"target"`
	Arguments    []any  `json:"arguments"`
	InvocationID string `json:"invocationId"`
}

type joinArgs struct {
	CourtID  json.Number `json:"courtId"`
	UserID   string      `json:"UserId"`
	StreamID int         `json:"StreamId"`
}

// splitRecords returns the non-blank records of one text message in wire order.
func splitRecords(msg []byte) [][]byte {
	parts := bytes.Split(msg, []byte(recordSeparator))
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		if len(bytes.TrimSpace(p)) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func decodeRecord(rec []byte) (inbound, error) {
	var msg inbound
	if err := json.Unmarshal(rec, &msg); err != nil {
		return inbound{}, fmt.Errorf("livefeed: malformed record: %w", err)
	}
	return msg, nil
}

func encodeRecord(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, recordSeparator...), nil
}

func handshakeRecord() []byte {
	return []byte(`{"protocol":"json","version":1}` + recordSeparator)
}

func pingRecord() []byte {
	return []byte(`{"type":6}` + recordSeparator)
}

// joinRecord builds the JoinCourtRoom invocation. courtID must already be normalized.
func joinRecord(courtID string) ([]byte, error) {
	return encodeRecord(invocation{
		Type:   messageInvocation,
		Target: targetJoinCourt,
		Arguments: []any{joinArgs{
			CourtID:  json.Number(courtID),
			UserID:   "0",
			StreamID: 0,
		}},
		InvocationID: "0",
	})
}
