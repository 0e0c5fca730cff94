package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRunsSession(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("SELL 100 10\nBUY 100 4\nTOP\nQUIT\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--no-banner", "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, strings.Join([]string{
		"order id=1 accepted",
		"order id=2 accepted",
		"trade: price=100 qty=4 (buy_id=2, sell_id=1)",
		"---- top of book ----",
		"ask: 100 x 6",
		"bid: (empty)",
		"---------------------",
		"",
	}, "\n"), out.String())
}

func TestRootDepthFlag(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("SELL 1 1\nSELL 2 1\nPRINT\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--no-banner", "--depth", "1", "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "         1  |  qty=1 (orders=1)")
	assert.NotContains(t, out.String(), "         2  |")
}

func TestRootRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("book:\n  depth: -1\n"), 0o600))

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path})
	assert.Error(t, cmd.Execute())
}

func TestTradesRequiresFeed(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"trades", "--log-level", "error"})
	assert.ErrorIs(t, cmd.Execute(), errFeedDisabled)
}
