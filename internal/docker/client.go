package docker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/docker/go-units"

	"github.com/m-hartl/glaskasten/internal/config"
)

const labelPrefix = "glaskasten."

// Client wraps the Docker daemon as the process orchestrator for browser
// runtimes. Every method is a one-shot external call: no retries here, the
// caller owns retry policy (blindly retrying stop/destroy can race a
// concurrent recreate).
type Client struct {
	docker *client.Client
	rt     config.Runtime
}

func New(rt config.Runtime) (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Client{docker: cli, rt: rt}, nil
}

func (c *Client) Close() error {
	return c.docker.Close()
}

// Ping verifies the Docker daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.docker.Ping(ctx)
	return err
}

type LaunchOpts struct {
	SessionID   string
	StartURL    string
	ProfileDir  string // host path mounted into the runtime
	CallbackURL string // base address for download notifications
}

// Launch creates and starts a browser runtime container. The display port is
// published on an ephemeral host port; ResolvePort reads the mapping once the
// container is up.
func (c *Client) Launch(ctx context.Context, opts LaunchOpts) (string, error) {
	displayPort := nat.Port(fmt.Sprintf("%d/tcp", c.rt.DisplayPort))

	labels := map[string]string{
		labelPrefix + "session_id": opts.SessionID,
		labelPrefix + "managed":    "true",
	}

	containerCfg := &container.Config{
		Image:  c.rt.Image,
		Labels: labels,
		Env: []string{
			"SESSION_ID=" + opts.SessionID,
			"START_URL=" + opts.StartURL,
			"SESSION_API_URL=" + opts.CallbackURL,
		},
		ExposedPorts: nat.PortSet{displayPort: struct{}{}},
	}

	hostCfg := &container.HostConfig{
		// Browsers fall over with the Docker default 64MB /dev/shm.
		ShmSize:     int64(c.rt.ShmSizeMB) * units.MiB,
		NetworkMode: container.NetworkMode(c.rt.Network),
		PortBindings: nat.PortMap{
			displayPort: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "0"}},
		},
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: opts.ProfileDir,
				Target: "/profile",
			},
		},
	}

	resp, err := c.docker.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "browser-"+opts.SessionID)
	if err != nil {
		return "", fmt.Errorf("container create: %w", err)
	}

	if err := c.docker.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Clean up on start failure.
		c.docker.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("container start: %w", err)
	}

	return resp.ID, nil
}

// ResolvePort returns the ephemeral host port mapped to the runtime's display
// port. The mapping may not exist immediately after start, so this polls
// until the ctx deadline.
func (c *Client) ResolvePort(ctx context.Context, containerID string) (int, error) {
	displayPort := nat.Port(fmt.Sprintf("%d/tcp", c.rt.DisplayPort))

	for {
		info, err := c.docker.ContainerInspect(ctx, containerID)
		if err != nil {
			return 0, fmt.Errorf("container inspect: %w", err)
		}
		if info.NetworkSettings != nil {
			if port, ok := hostPort(info.NetworkSettings.Ports[displayPort]); ok {
				return port, nil
			}
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("port mapping for %s: %w", containerID, ctx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// hostPort extracts the first usable host port from a binding list.
func hostPort(bindings []nat.PortBinding) (int, bool) {
	for _, b := range bindings {
		if b.HostPort == "" {
			continue
		}
		if port, err := strconv.Atoi(b.HostPort); err == nil && port > 0 {
			return port, true
		}
	}
	return 0, false
}

// Pause suspends the runtime. Pausing an already-paused container is a no-op.
func (c *Client) Pause(ctx context.Context, containerID string) error {
	info, err := c.docker.ContainerInspect(ctx, containerID)
	if err != nil {
		return fmt.Errorf("container inspect: %w", err)
	}
	if info.State != nil && info.State.Paused {
		return nil
	}
	if err := c.docker.ContainerPause(ctx, containerID); err != nil {
		return fmt.Errorf("container pause: %w", err)
	}
	return nil
}

// Resume continues a paused runtime. Resuming a running container is a no-op.
func (c *Client) Resume(ctx context.Context, containerID string) error {
	info, err := c.docker.ContainerInspect(ctx, containerID)
	if err != nil {
		return fmt.Errorf("container inspect: %w", err)
	}
	if info.State != nil && !info.State.Paused {
		return nil
	}
	if err := c.docker.ContainerUnpause(ctx, containerID); err != nil {
		return fmt.Errorf("container unpause: %w", err)
	}
	return nil
}

// Stop gracefully stops and removes the runtime, freeing its host port.
func (c *Client) Stop(ctx context.Context, containerID string) error {
	timeout := 10
	if err := c.docker.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout}); err != nil {
		if !client.IsErrNotFound(err) {
			return fmt.Errorf("container stop: %w", err)
		}
	}
	if err := c.docker.ContainerRemove(ctx, containerID, container.RemoveOptions{}); err != nil {
		if !client.IsErrNotFound(err) {
			return fmt.Errorf("container remove: %w", err)
		}
	}
	return nil
}

// ForceDestroy unconditionally removes the runtime. An already-gone container
// is success: grace-expiry reclamation must never be blocked by a missing or
// wedged container.
func (c *Client) ForceDestroy(ctx context.Context, containerID string) error {
	err := c.docker.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("container force remove: %w", err)
	}
	return nil
}

// Input actions accepted by SendInputCommand.
const (
	ActionBack     = "back"
	ActionForward  = "forward"
	ActionRefresh  = "refresh"
	ActionNavigate = "navigate"
)

// SendInputCommand injects a simulated navigation action into the running
// browser via xdotool. The action is validated before any Docker call.
func (c *Client) SendInputCommand(ctx context.Context, containerID, action, url string) error {
	cmd, err := buildInputCommand(action, url)
	if err != nil {
		return err
	}

	execResp, err := c.docker.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          []string{"sh", "-c", cmd},
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return fmt.Errorf("exec create: %w", err)
	}

	attachResp, err := c.docker.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return fmt.Errorf("exec attach: %w", err)
	}
	attachResp.Close()

	inspect, err := c.docker.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return fmt.Errorf("exec inspect: %w", err)
	}
	if inspect.ExitCode != 0 {
		return fmt.Errorf("input command %q exited with code %d", action, inspect.ExitCode)
	}
	return nil
}

// buildInputCommand maps a navigation action to the xdotool invocation run
// inside the runtime.
func buildInputCommand(action, url string) (string, error) {
	const window = `--window "$(xdotool search --class chromium | head -n 1)"`

	switch action {
	case ActionBack:
		return "xdotool key " + window + " alt+Left", nil
	case ActionForward:
		return "xdotool key " + window + " alt+Right", nil
	case ActionRefresh:
		return "xdotool key " + window + " F5", nil
	case ActionNavigate:
		if url == "" {
			return "", fmt.Errorf("navigate requires a url")
		}
		return "xdotool key " + window + " ctrl+l && " +
			"xdotool type " + shellQuote(url) + " && " +
			"xdotool key Return", nil
	default:
		return "", fmt.Errorf("unknown action: %s", action)
	}
}

// shellQuote single-quotes s for safe interpolation into sh -c.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RuntimeInfo holds basic info about a managed browser container.
type RuntimeInfo struct {
	ContainerID string
	SessionID   string
	State       string
}

// ListManaged returns all containers carrying glaskasten labels, including
// stopped ones. Used by the admin surface and by startup reconciliation.
func (c *Client) ListManaged(ctx context.Context) ([]RuntimeInfo, error) {
	f := filters.NewArgs()
	f.Add("label", labelPrefix+"managed=true")

	containers, err := c.docker.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	var result []RuntimeInfo
	for _, ctr := range containers {
		sessionID := ctr.Labels[labelPrefix+"session_id"]
		if sessionID == "" {
			continue
		}
		result = append(result, RuntimeInfo{
			ContainerID: ctr.ID,
			SessionID:   sessionID,
			State:       ctr.State,
		})
	}
	return result, nil
}
