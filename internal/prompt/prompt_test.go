package prompt

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNonInteractiveIsDismissal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	term := &Terminal{In: r}

	choice, ok, err := term.Confirm(context.Background(), "Overwrite?", []string{"No", "Yes to all"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, choice)

	choice, ok, err = term.Select(context.Background(), "Template", []string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, choice)
}

func TestTerminalNoChoices(t *testing.T) {
	orig := isTerminal
	isTerminal = func(int) bool { return true }
	t.Cleanup(func() { isTerminal = orig })

	_, ok, err := NewTerminal().Confirm(context.Background(), "?", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssumeYesPicksLastChoice(t *testing.T) {
	choice, ok, err := AssumeYes{}.Confirm(context.Background(), "?", []string{"No", "Yes to all"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Yes to all", choice)

	_, ok, _ = AssumeYes{}.Confirm(context.Background(), "?", nil)
	assert.False(t, ok)
}
