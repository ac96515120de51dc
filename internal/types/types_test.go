package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64(t *testing.T) {
	cases := map[string]uint64{
		`2500`:     2500,
		`"2500"`:   2500,
		`" 300 "`:  300,
		`2500.0`:   2500,
		`0`:        0,
	}
	for in, want := range cases {
		var f FlexUint64
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, f.Uint64(), in)
	}

	for _, in := range []string{`-1`, `1.5`, `"abc"`, `true`} {
		var f FlexUint64
		assert.Error(t, json.Unmarshal([]byte(in), &f), in)
	}

	assert.Equal(t, 2500*time.Millisecond, FlexUint64(2500).Milliseconds())
}

func TestFlexListStrings(t *testing.T) {
	var l FlexList[string]
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &l))
	assert.Equal(t, []string{"a", "b"}, l.Slice())

	require.NoError(t, json.Unmarshal([]byte(`"a, b,,c"`), &l))
	assert.Equal(t, []string{"a", "b", "c"}, l.Slice())

	require.NoError(t, json.Unmarshal([]byte(`null`), &l))
	assert.Empty(t, l)
}

func TestFlexListSingleObject(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}
	var l FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x"}`), &l))
	assert.Equal(t, []item{{ID: "x"}}, l.Slice())
}

func TestCustomErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(400, "data.validation", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "400: boom [type: data.validation]", err.Error())

	var ce *CustomError
	assert.True(t, errors.As(error(NewError(403, "auth", "no %s", "cookie")), &ce))
	assert.Equal(t, "no cookie", ce.Message)
}

func TestFlexString(t *testing.T) {
	cases := map[string]string{
		`"crm-42"`: "crm-42",
		`12345`:    "12345",
		`12.5`:     "12.5",
		`""`:       "",
	}
	for in, want := range cases {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, string(f), in)
	}

	var s struct {
		ID *FlexString `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &s))
	assert.Nil(t, s.ID)
	assert.Equal(t, "", s.ID.String())

	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &f))

	out, err := json.Marshal(FlexString("77"))
	require.NoError(t, err)
	assert.Equal(t, `"77"`, string(out))
}
