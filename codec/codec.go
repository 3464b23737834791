package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sync"
)

var errNotObject = errors.New("request must be a JSON object")

// DecodeRequest parses one input line into a Request. Anything that is not a
// single JSON object is rejected.
//
// When the line is a well-formed object whose fields have the wrong types, the
// error is returned together with a Request carrying only the caller's id, so
// the failure can still be correlated.
func DecodeRequest(line []byte) (*Request, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		return nil, errNotObject
	}

	var req Request
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&req); err != nil {
		var envelope struct {
			ID json.RawMessage `json:"id"`
		}
		if json.Unmarshal(trimmed, &envelope) == nil && !IsNull(envelope.ID) {
			return &Request{ID: envelope.ID}, err
		}
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after request object")
	}
	if IsNull(req.ID) {
		req.ID = nil
	}
	return &req, nil
}

// DecodeParams decodes a params object keeping numbers as json.Number.
// Absent or null params decode to an empty map.
func DecodeParams(raw json.RawMessage) (map[string]any, error) {
	params := map[string]any{}
	if IsNull(raw) {
		return params, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

// Encoder writes newline-delimited responses. It is safe for concurrent use;
// each response is written as one complete line.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(resp Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = e.w.Write(b)
	return err
}
