package diaglog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarning)

	l.Debugf("should not appear")
	l.Infof("should not appear either")
	l.Warningf("careful: %d", 3)
	l.Errorf("boom")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "[warning] careful: 3")
	assert.Contains(t, out, "[error] boom")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.Infof("quiet")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelInfo)
	l.Infof("loud")
	assert.True(t, strings.Contains(buf.String(), "loud"))
}
