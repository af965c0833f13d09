package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TL_DEBUG", "")
	SetVerbose(false)
	assert.False(t, DebugEnabled(), "should be off when TL_DEBUG is empty")

	t.Setenv("TL_DEBUG", "1")
	assert.True(t, DebugEnabled(), "should be on when TL_DEBUG is set")

	t.Setenv("TL_DEBUG", "")
	SetVerbose(true)
	defer SetVerbose(false)
	assert.True(t, DebugEnabled(), "should be on when verbose is set")
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDebugOutput(&buf)
	defer SetDebugOutput(prev)

	t.Setenv("TL_DEBUG", "")
	SetVerbose(false)
	Debugf("hidden %s\n", "line")
	assert.Empty(t, buf.String())

	t.Setenv("TL_DEBUG", "1")
	Debugf("shown %s\n", "line")
	Debugln("second")
	assert.Equal(t, "shown line\nsecond\n", buf.String())
}

func TestSetConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetConsoleOutput(&buf)
	defer SetConsoleOutput(prev)

	assert.Same(t, &buf, Console())
	assert.Same(t, &buf, SetConsoleOutput(prev))
	assert.Equal(t, prev, Console())
}
