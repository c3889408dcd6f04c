package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
		args  []string
	}{
		{"/today", CommandToday, nil},
		{"tasks", CommandToday, nil},
		{"  /STATUS  ", CommandStatus, nil},
		{"/done abc-Turn-3", CommandDone, []string{"abc-Turn-3"}},
		{"complete x", CommandDone, []string{"x"}},
		{"/undo x", CommandUndo, []string{"x"}},
		{"/start", CommandHelp, nil},
		{"hello there", CommandUnknown, []string{"there"}},
		{"", CommandUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
			assert.Equal(t, tt.input, cmd.Raw)
		})
	}
}
