package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Err(t *testing.T) {
	assert.Empty(t, Idle().Err())
	assert.Empty(t, Loading(2).Err())
	assert.Empty(t, Loaded(2).Err())
	assert.Equal(t, FetchPostsFailed, Failed(2, FetchPostsFailed).Err())

	assert.True(t, Loading(1).IsLoading())
	assert.False(t, Failed(1, "x").IsLoading())
}

func TestStatus_JSON(t *testing.T) {
	b, err := json.Marshal(Failed(3, FetchPostsFailed))
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"failed","page":3,"message":"Failed to fetch posts."}`, string(b))

	b, err = json.Marshal(Idle())
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"idle"}`, string(b))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestStatus_RoundTripsPhaseName(t *testing.T) {
	var s Status
	require.NoError(t, json.Unmarshal([]byte(`{"phase":"loading","page":2}`), &s))
	assert.Equal(t, Loading(2), s)

	require.Error(t, json.Unmarshal([]byte(`{"phase":"busy"}`), &s))
}
