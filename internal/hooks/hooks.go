// Package hooks runs user-configured shell commands when a wizard run
// produces or exports an analysis.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/wizard"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".stylewiz.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	Run     string
	Keyword string
	Model   string
	Target  string
}

// Execute runs a hook command through sh with stdin as its input and returns
// what it printed. Template variables ({{run}}, {{keyword}}, {{model}},
// {{target}}) are passed as STYLEWIZ_* environment variables and the tokens
// become quoted references to them.
// A failing or timed out command is reported in the returned output, never as
// an error; only cancellation of ctx is returned.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables, stdin string) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command)
	timeout := hook.timeout()
	logger.Debug("Executing hook command (timeout %s): %s", timeout, command)

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), vars.environ()...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of sh may outlive it and hold the pipes open
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()

	switch {
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		logger.Warn("Hook command timed out after %s: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %s]\nPartial output:\n%s", timeout, stdout.String()), nil
	case runErr != nil:
		logger.Warn("Hook command %q failed: %v", command, runErr)
		return fmt.Sprintf("[Hook command failed: %v]\n%s", runErr, combineOutput(stdout.String(), stderr.String())), nil
	}

	if stderr.Len() > 0 && logger.Enabled(logger.LevelDebug) {
		logger.Debug("Hook stderr for %q: %s", command, strings.TrimSpace(stderr.String()))
	}
	return combineOutput(stdout.String(), stderr.String()), nil
}

// combineOutput appends a labelled stderr section to stdout when present.
func combineOutput(stdout, stderr string) string {
	if stderr == "" {
		return stdout
	}
	return stdout + "\n[stderr]\n" + stderr
}

// ExecuteAll runs hooks in order and joins their non-empty outputs with a
// blank line. It stops at the first context cancellation.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables, stdin string) (string, error) {
	var outputs []string
	for _, h := range hooks {
		out, err := Execute(ctx, h, workDir, vars, stdin)
		if err != nil {
			return strings.Join(outputs, "\n"), err
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	}
	return strings.Join(outputs, "\n"), nil
}

// hookVariables maps each {{variable}} token to the environment variable
// carrying its value.
var hookVariables = []struct{ token, env string }{
	{"{{run}}", "STYLEWIZ_RUN"},
	{"{{keyword}}", "STYLEWIZ_KEYWORD"},
	{"{{model}}", "STYLEWIZ_MODEL"},
	{"{{target}}", "STYLEWIZ_TARGET"},
}

var variableExpander = func() *strings.Replacer {
	pairs := make([]string, 0, len(hookVariables)*2)
	for _, v := range hookVariables {
		pairs = append(pairs, v.token, `"$`+v.env+`"`)
	}
	return strings.NewReplacer(pairs...)
}()

// expandVariables replaces {{variable}} tokens with quoted references to
// their environment variables. Values never become part of the command text,
// so the shell cannot interpret them.
func expandVariables(command string) string {
	return variableExpander.Replace(command)
}

// environ returns the variables as NAME=value pairs for the hook process.
func (v Variables) environ() []string {
	values := []string{v.Run, v.Keyword, v.Model, v.Target}
	env := make([]string, len(hookVariables))
	for i, hv := range hookVariables {
		env[i] = hv.env + "=" + values[i]
	}
	return env
}

// Runner runs the configured hooks for one wizard run. It implements
// wizard.Observer; hook output goes to the log.
type Runner struct {
	cfg     *Config
	workDir string
	run     string
	ctx     context.Context
}

// NewRunner creates a Runner. A nil cfg runs nothing.
func NewRunner(ctx context.Context, cfg *Config, workDir, run string) *Runner {
	return &Runner{cfg: cfg, workDir: workDir, run: run, ctx: ctx}
}

// Observe implements wizard.Observer.
func (r *Runner) Observe(ev wizard.Event) {
	if r.cfg == nil || ev.Err != nil {
		return
	}

	var (
		hooks []*HookConfig
		name  string
		stdin string
	)
	switch ev.Kind {
	case wizard.EventGeneration:
		hooks, name = r.cfg.Hooks.OnGenerate, "on_generate"
	case wizard.EventExport:
		hooks, name = r.cfg.Hooks.OnExport, "on_export"
	default:
		return
	}
	if len(hooks) == 0 {
		return
	}
	if ev.Context.AnalysisResult != nil {
		stdin = ev.Context.AnalysisResult.Text
	}

	vars := Variables{
		Run:     r.run,
		Keyword: ev.Context.Keyword,
		Model:   ev.Context.Model.ID,
		Target:  ev.Target,
	}
	out, err := ExecuteAll(r.ctx, hooks, r.workDir, vars, stdin)
	if err != nil {
		logger.Warn("%s hooks interrupted: %v", name, err)
		return
	}
	if out != "" {
		logger.Info("%s hooks output:\n%s", name, out)
	}
}
