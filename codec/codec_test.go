package codec

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"id":"7","method":"get-issue","params":{"issue_id":3}}` + "\n"))
	require.NoError(t, err)

	name, args := req.Tool()
	assert.Equal(t, "get-issue", name)
	assert.JSONEq(t, `{"issue_id":3}`, string(args))
	assert.Equal(t, `"7"`, string(req.ID))
}

func TestDecodeRequest_Malformed(t *testing.T) {
	for _, line := range []string{`{"id":1,`, `not json`, `[1,2]`, `"string"`, `{"id":1} trailing`, ``} {
		_, err := DecodeRequest([]byte(line))
		assert.Error(t, err, "line %q", line)
	}
}

func TestDecodeRequest_WrongFieldTypeKeepsID(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"id":"7","method":42}`))
	assert.Error(t, err)
	require.NotNil(t, req)
	assert.Equal(t, `"7"`, string(req.ID))
	assert.Empty(t, req.Method)

	req, err = DecodeRequest([]byte(`{"id":null,"method":42}`))
	assert.Error(t, err)
	assert.Nil(t, req)
}

func TestDecodeRequest_NullID(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"id":null,"method":"health-check"}`))
	require.NoError(t, err)
	assert.Nil(t, req.ID)
}

func TestRequestTool_Aliases(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"id":1,"tool_name":"list-projects","params":{}}`))
	require.NoError(t, err)
	name, _ := req.Tool()
	assert.Equal(t, "list-projects", name)

	req, err = DecodeRequest([]byte(`{"id":2,"method":"tools/call","params":{"name":"get-issue","arguments":{"issue_id":9}}}`))
	require.NoError(t, err)
	name, args := req.Tool()
	assert.Equal(t, "get-issue", name)
	assert.JSONEq(t, `{"issue_id":9}`, string(args))
}

func TestDecodeParams(t *testing.T) {
	params, err := DecodeParams(json.RawMessage(`{"n":12345678901234567890,"s":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), params["n"])

	params, err = DecodeParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)

	params, err = DecodeParams(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = DecodeParams(json.RawMessage(`[1]`))
	assert.Error(t, err)
}

func TestEncodeResponses(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)

	require.NoError(t, enc.Encode(NewResult(json.RawMessage(`"1"`), json.RawMessage(`{"status":"ok"}`))))
	require.NoError(t, enc.Encode(NewError(nil, Error{Code: "PARSE_ERROR", Message: "bad"})))
	require.NoError(t, enc.Encode(NewResult(json.RawMessage(`3`), nil)))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, `{"id":"1","result":{"status":"ok"}}`, string(lines[0]))
	assert.Equal(t, `{"id":null,"error":{"code":"PARSE_ERROR","message":"bad"}}`, string(lines[1]))
	assert.Equal(t, `{"id":3,"result":null}`, string(lines[2]))
}

func TestEncoder_ConcurrentWritesStayWhole(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _ := json.Marshal(i)
			_ = enc.Encode(NewResult(id, json.RawMessage(`{"ok":true}`)))
		}(i)
	}
	wg.Wait()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 50)
	for _, line := range lines {
		assert.True(t, json.Valid(line), "line %q", line)
	}
}
