package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedArgument is returned when an invocation argument is neither a list nor an object.
var ErrUnexpectedArgument = errors.New("scoring: argument is not an object or list")

// DecodeEntries decodes the first invocation argument into payloads of the given kind.
// Upstream sends a list of entries but a bare object is accepted too. Entries that fail to
// decode are skipped and counted so one bad entry does not hide the rest.
func DecodeEntries(kind Kind, raw json.RawMessage) ([]Payload, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, 0, ErrUnexpectedArgument
	}

	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("scoring: decode entry list: %w", err)
		}
	case '{':
		items = []json.RawMessage{raw}
	default:
		return nil, 0, ErrUnexpectedArgument
	}

	payloads := make([]Payload, 0, len(items))
	skipped := 0
	for _, item := range items {
		p, err := decodeEntry(kind, item)
		if err != nil {
			skipped++
			continue
		}
		payloads = append(payloads, p)
	}
	return payloads, skipped, nil
}

func decodeEntry(kind Kind, item json.RawMessage) (Payload, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '{' {
		return nil, ErrUnexpectedArgument
	}
	switch kind {
	case KindUpdate:
		var p UpdatePayload
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, err
		}
		return p, nil
	case KindAction:
		var p ActionPayload
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("scoring: unknown payload kind %d", kind)
	}
}
