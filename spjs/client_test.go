package spjs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) interface{} {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(data), &fields))
	val, err := parseMessage([]byte(data), fields)
	require.NoError(t, err)
	return val
}

func TestParseMessage(t *testing.T) {
	val := parse(t, `{"P":"/dev/ttyUSB0","D":"<Idle|MPos:0.000,0.000,0.000>"}`)
	df, ok := val.(*DataFrame)
	require.True(t, ok)
	assert.Equal(t, "/dev/ttyUSB0", df.Port)
	assert.Equal(t, "<Idle|MPos:0.000,0.000,0.000>", df.Data)

	// A command status carries D too; Type decides.
	val = parse(t, `{"Cmd":"Complete","QCnt":0,"Type":["Queued"],"D":["G1 X1\n"],"Id":"cmd_1"}`)
	cs, ok := val.(*CmdStatus)
	require.True(t, ok)
	assert.Equal(t, "Complete", cs.Cmd)
	assert.Equal(t, "cmd_1", cs.ID)

	val = parse(t, `{"SerialPorts":[{"Name":"/dev/ttyUSB0","IsOpen":true,"Baud":115200}]}`)
	pl, ok := val.(*SerialPortList)
	require.True(t, ok)
	require.Len(t, pl.SerialPorts, 1)
	assert.True(t, pl.SerialPorts[0].IsOpen)

	val = parse(t, `{"Error":"Could not find port"}`)
	em, ok := val.(*ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "Could not find port", em.Error)
}

func TestParseMessage_unknown(t *testing.T) {
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{"Version":"1.95"}`), &fields))
	_, err := parseMessage([]byte(`{"Version":"1.95"}`), fields)
	assert.Error(t, err)
}

func TestJSON_Marshal(t *testing.T) {
	data, err := json.Marshal(JSON{
		Port: "/dev/ttyUSB0",
		Data: []Data{{Data: "G1 X1\n", ID: "cmd_1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"P":"/dev/ttyUSB0","Data":[{"D":"G1 X1\n","Id":"cmd_1"}]}`, string(data))
}
