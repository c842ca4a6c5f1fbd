package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordLogger(t *testing.T) {
	assert := assert.New(t)
	rl := &RecordLogger{}
	undo := UseLogger(rl)
	defer undo()

	Warn("boom: %d", 1)
	assert.Len(rl.Logs(), 1)
	assert.Contains(rl.Logs()[0], "boom: 1")
}

func TestErrorAggregation(t *testing.T) {
	assert := assert.New(t)
	rl := &RecordLogger{}
	undo := UseLogger(rl)
	defer undo()

	old := errrate
	errrate = 10 * time.Millisecond
	defer func() { errrate = old }()

	for i := 0; i < 5; i++ {
		Error("collector unreachable: %s", "connection refused")
	}
	assert.Empty(rl.Logs(), "errors should be aggregated, not printed immediately")

	time.Sleep(50 * time.Millisecond)
	logs := rl.Logs()
	if assert.Len(logs, 1) {
		assert.Contains(logs[0], "4 additional occurrences skipped")
	}
}

func TestDebugEnabled(t *testing.T) {
	assert := assert.New(t)
	old := GetLevel()
	defer SetLevel(old)

	SetLevel(LevelWarn)
	assert.False(DebugEnabled())
	SetLevel(LevelDebug)
	assert.True(DebugEnabled())
}
