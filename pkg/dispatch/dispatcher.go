// Package dispatch validates and executes playbook-derived commands under an
// allow-list and a wall-clock timeout. It is the only component that spawns
// external OS processes; callers must have validated every substituted value
// against the safe-identifier pattern before commands reach it.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds each command's execution.
const DefaultTimeout = 300 * time.Second

// Per-command outcome kinds. A timeout is distinguished from a generic
// execution failure so the operator can tell a slow tool from a broken one.
const (
	KindTimeout         = "CommandTimeout"
	KindExecutionFailed = "CommandExecutionFailed"
)

// DefaultAllowedTools is the built-in allow-list; deployments override it
// through configuration.
func DefaultAllowedTools() []string {
	return []string{"nmap", "wpscan", "searchsploit", "hydra", "curl", "whois"}
}

// CommandResult is the structured outcome of one executed command.
type CommandResult struct {
	Command   string `json:"command"`
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// BatchResult aggregates per-command results. Success is true only when
// every command succeeded.
type BatchResult struct {
	Success bool            `json:"success"`
	Results []CommandResult `json:"results"`
}

// Dispatcher runs allow-listed commands with a bounded timeout. Commands are
// tokenized and launched as argument vectors, never handed to a shell, which
// removes the injection surface structurally.
type Dispatcher struct {
	allowed []string
	timeout time.Duration
}

// New builds a dispatcher. Empty tool lists fall back to the default
// allow-list, non-positive timeouts to DefaultTimeout.
func New(allowedTools []string, timeout time.Duration) *Dispatcher {
	if len(allowedTools) == 0 {
		allowedTools = DefaultAllowedTools()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	lowered := make([]string, len(allowedTools))
	for i, tool := range allowedTools {
		lowered[i] = strings.ToLower(tool)
	}
	return &Dispatcher{allowed: lowered, timeout: timeout}
}

// Run validates the whole batch against the allow-list, then executes each
// allowed command. The batch is rejected on the first disallowed command
// with nothing executed. A per-command timeout or failure does not abort
// sibling commands.
func (d *Dispatcher) Run(ctx context.Context, commands []string) (*BatchResult, error) {
	for _, cmd := range commands {
		if !d.allowedCommand(cmd) {
			return nil, &NotAllowedError{Command: cmd, Token: leadingToken(cmd)}
		}
	}

	batch := &BatchResult{Success: true, Results: make([]CommandResult, 0, len(commands))}
	for _, cmd := range commands {
		result := d.execute(ctx, cmd)
		if !result.Success {
			batch.Success = false
		}
		batch.Results = append(batch.Results, result)

		if err := ctx.Err(); err != nil {
			// Caller cancelled; remaining commands are not started.
			return batch, err
		}
	}
	return batch, nil
}

// allowedCommand reports whether the command references at least one
// allow-listed tool, matched case-insensitively against the full command
// text.
func (d *Dispatcher) allowedCommand(cmd string) bool {
	lowered := strings.ToLower(cmd)
	for _, tool := range d.allowed {
		if strings.Contains(lowered, tool) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) execute(ctx context.Context, command string) CommandResult {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CommandResult{
			Command:   command,
			Error:     "empty command",
			ErrorKind: KindExecutionFailed,
		}
	}

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	proc := exec.CommandContext(cctx, fields[0], fields[1:]...)
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	err := proc.Run()
	elapsed := time.Since(start)

	result := CommandResult{
		Command: command,
		Success: err == nil,
		Output:  stdout.String(),
	}

	switch {
	case err == nil:
		log.Debug().Str("component", "dispatch").Str("command", fields[0]).
			Dur("elapsed", elapsed).Msg("Command completed")
	case errors.Is(cctx.Err(), context.DeadlineExceeded):
		result.Error = fmt.Sprintf("command timed out after %s", d.timeout)
		result.ErrorKind = KindTimeout
		log.Warn().Str("component", "dispatch").Str("command", fields[0]).
			Dur("timeout", d.timeout).Msg("Command timed out")
	default:
		result.Error = strings.TrimSpace(stderr.String())
		if result.Error == "" {
			result.Error = err.Error()
		}
		result.ErrorKind = KindExecutionFailed
		log.Warn().Str("component", "dispatch").Str("command", fields[0]).
			Err(err).Msg("Command failed")
	}
	return result
}

func leadingToken(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
