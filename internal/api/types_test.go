package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_UnmarshalKeepsKeyOrder(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"zeta":1,"alpha":"a","mid":null,"nested":{"b":2,"a":1}}`), &row)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "nested"}, row.Keys())

	v, ok := row.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), v)

	v, ok = row.Get("mid")
	require.True(t, ok)
	assert.Nil(t, v)

	v, ok = row.Get("nested")
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`{"b":2,"a":1}`), v)

	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestRow_UnmarshalRejectsNonObject(t *testing.T) {
	var row Row
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &row))
}

func TestRow_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), &row))

	assert.Equal(t, []string{"a", "b"}, row.Keys())
	v, _ := row.Get("a")
	assert.Equal(t, json.Number("3"), v)
}

func TestExecution_UnmarshalRows(t *testing.T) {
	var exec Execution
	err := json.Unmarshal([]byte(`{"data":[{"b":1,"a":2},{"a":3}]}`), &exec)
	require.NoError(t, err)

	require.Len(t, exec.Data, 2)
	assert.Equal(t, []string{"b", "a"}, exec.Data[0].Keys())
	assert.Equal(t, []string{"a"}, exec.Data[1].Keys())
}

func TestExecution_RejectsNullRow(t *testing.T) {
	for _, body := range []string{`{"data":[null,{"a":1}]}`, `{"data":[{"a":1},null]}`} {
		var exec Execution
		assert.Error(t, json.Unmarshal([]byte(body), &exec), body)
	}
}

func TestExecution_NullDataIsEmpty(t *testing.T) {
	var exec Execution
	require.NoError(t, json.Unmarshal([]byte(`{"data":null}`), &exec))
	assert.Empty(t, exec.Data)
}

func TestRow_KeysIsACopy(t *testing.T) {
	var row Row
	row.Set("a", 1)
	keys := row.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"a"}, row.Keys())
}

func TestDetailFromBody(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"  bad things  "}`, "bad things"},
		{`{"detail":null}`, ""},
		{`{}`, ""},
		{`not json`, ""},
		{`{"detail":{"code":1}}`, `{"code":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detailFromBody([]byte(tt.body)), tt.body)
	}
}
