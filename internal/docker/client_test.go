package docker

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInputCommand_Back(t *testing.T) {
	cmd, err := buildInputCommand(ActionBack, "")
	require.NoError(t, err)
	assert.Contains(t, cmd, "alt+Left")
}

func TestBuildInputCommand_Forward(t *testing.T) {
	cmd, err := buildInputCommand(ActionForward, "")
	require.NoError(t, err)
	assert.Contains(t, cmd, "alt+Right")
}

func TestBuildInputCommand_Refresh(t *testing.T) {
	cmd, err := buildInputCommand(ActionRefresh, "")
	require.NoError(t, err)
	assert.Contains(t, cmd, "F5")
}

func TestBuildInputCommand_Navigate(t *testing.T) {
	cmd, err := buildInputCommand(ActionNavigate, "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, cmd, "ctrl+l")
	assert.Contains(t, cmd, "'https://example.com'")
	assert.Contains(t, cmd, "Return")
}

func TestBuildInputCommand_NavigateQuoting(t *testing.T) {
	cmd, err := buildInputCommand(ActionNavigate, "https://example.com/a'b")
	require.NoError(t, err)
	// Single quotes in the URL must not break out of the shell quoting.
	assert.Contains(t, cmd, `'https://example.com/a'\''b'`)
}

func TestBuildInputCommand_NavigateRequiresURL(t *testing.T) {
	_, err := buildInputCommand(ActionNavigate, "")
	assert.Error(t, err)
}

func TestBuildInputCommand_UnknownAction(t *testing.T) {
	_, err := buildInputCommand("teleport", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestHostPort_FirstBinding(t *testing.T) {
	port, ok := hostPort([]nat.PortBinding{
		{HostIP: "0.0.0.0", HostPort: "32768"},
	})
	assert.True(t, ok)
	assert.Equal(t, 32768, port)
}

func TestHostPort_SkipsEmpty(t *testing.T) {
	port, ok := hostPort([]nat.PortBinding{
		{HostIP: "::", HostPort: ""},
		{HostIP: "0.0.0.0", HostPort: "49153"},
	})
	assert.True(t, ok)
	assert.Equal(t, 49153, port)
}

func TestHostPort_NoBindings(t *testing.T) {
	_, ok := hostPort(nil)
	assert.False(t, ok)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'plain'", shellQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
