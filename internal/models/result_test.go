package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecResultStatus(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		succeeded bool
	}{
		{name: "zero is success", code: 0, succeeded: true},
		{name: "non-zero is failure", code: 3, succeeded: false},
		{name: "negative sentinel is failure", code: -1, succeeded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ExecResult{Command: "true", ReturnCode: tt.code}
			assert.Equal(t, tt.succeeded, res.Succeeded())
			assert.Equal(t, !tt.succeeded, res.Failed())
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: 5}
	assert.Equal(t, "command exited with code 5", err.Error())
}

func TestRuntimeContextToMap(t *testing.T) {
	rc := RuntimeContext{Verbose: 2, Pretend: true}
	m := rc.ToMap()
	assert.Equal(t, 2, m["verbose"])
	assert.Equal(t, true, m["pretend"])
	assert.Equal(t, false, m["color"])
}
