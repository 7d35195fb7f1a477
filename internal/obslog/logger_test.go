package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesLoggedEntries(t *testing.T) {
	l := New("test")
	l.DisableConsoleOutput()
	ch := l.Subscribe()

	l.Infof("hello %s", "world")

	entry := <-ch
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello world", entry.Message)
}

func TestWithFieldsAttachesFields(t *testing.T) {
	l := New("test")
	l.DisableConsoleOutput()
	ch := l.Subscribe()

	l.WithFields(map[string]string{"stream": "s1"}).Error("boom")

	entry := <-ch
	require.NotNil(t, entry.Fields)
	assert.Equal(t, "s1", entry.Fields["stream"])
}
