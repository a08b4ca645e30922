package xlspill

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationLog_WriteJSON(t *testing.T) {
	m, _, log := newTestManager(t, nil)
	edit(t, m, "A1", "=[1,2]")
	edit(t, m, "A2", "x")
	edit(t, m, "C3", "hello")

	var buf bytes.Buffer
	require.NoError(t, log.WriteJSON(&buf))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "FORMULA_INPUT", decoded[0]["eventType"])
	assert.Equal(t, "EDIT_REJECTED", decoded[1]["eventType"])
	assert.Equal(t, "CELL_EDIT", decoded[2]["eventType"])

	data := decoded[0]["data"].(map[string]any)
	assert.Equal(t, "=[1,2]", data["formula"])
	assert.Equal(t, "Spilled: 2x1 array", data["result"])
	assert.EqualValues(t, time.Time(testClock).UnixMilli(), decoded[0]["timestamp"])

	data = decoded[2]["data"].(map[string]any)
	assert.EqualValues(t, 2, data["row"])
	assert.EqualValues(t, 2, data["col"])
	assert.Equal(t, "hello", data["newValue"])
}

func TestOperationLog_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOperationLog().WriteJSON(&buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestOperationLog_EventsIsCopy(t *testing.T) {
	log := NewOperationLog()
	log.OnEvent(Event{Type: EventCellEdit})
	events := log.Events()
	events[0].Type = EventSpillBlocked
	assert.Equal(t, EventCellEdit, log.Events()[0].Type)
	assert.Empty(t, log.Filter(EventSpillBlocked))
}
