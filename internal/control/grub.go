package control

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mfenwick/vigil/internal/errors"
)

// grubKeyRe matches the parameter names GRUB's defaults file defines.
var grubKeyRe = regexp.MustCompile(`^GRUB_[A-Z0-9_]+$`)

// GrubParam is one boot parameter in file order.
type GrubParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GrubConfig is an in-memory edit buffer for /etc/default/grub. Lines are
// kept verbatim; Render of an untouched config reproduces the file
// byte-for-byte. Only Set rewrites anything, and only the one line it
// targets.
type GrubConfig struct {
	path  string
	lines []string
}

// parseGrubContent splits the file. strings.Split and Join are exact
// inverses, so the trailing-newline shape survives untouched.
func parseGrubContent(path, content string) *GrubConfig {
	return &GrubConfig{path: path, lines: strings.Split(content, "\n")}
}

// Path returns the file this config was read from.
func (g *GrubConfig) Path() string { return g.path }

// Render serializes the buffer back to file bytes.
func (g *GrubConfig) Render() string {
	return strings.Join(g.lines, "\n")
}

// lineParam extracts a parameter from one line, if it defines one.
func lineParam(line string) (GrubParam, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "GRUB_") {
		return GrubParam{}, false
	}

	eq := strings.Index(trimmed, "=")
	if eq < 0 {
		return GrubParam{}, false
	}

	key := trimmed[:eq]
	if !grubKeyRe.MatchString(key) {
		return GrubParam{}, false
	}

	value := trimmed[eq+1:]
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}

	return GrubParam{Key: key, Value: value}, true
}

// Params returns the parameters in file order. A key defined twice appears
// twice; GRUB reads the file as shell, so the later one wins on boot.
func (g *GrubConfig) Params() []GrubParam {
	var params []GrubParam
	for _, line := range g.lines {
		if p, ok := lineParam(line); ok {
			params = append(params, p)
		}
	}
	return params
}

// Get returns the effective value for a key: the last definition in the file.
func (g *GrubConfig) Get(key string) (string, bool) {
	value, found := "", false
	for _, line := range g.lines {
		if p, ok := lineParam(line); ok && p.Key == key {
			value, found = p.Value, true
		}
	}
	return value, found
}

// Set rewrites the key's line as KEY="value", or appends a new line for an
// unknown key. Values that cannot be quoted safely are rejected rather
// than escaped.
func (g *GrubConfig) Set(key, value string) error {
	if !grubKeyRe.MatchString(key) {
		return errors.New(errors.ErrParse,
			fmt.Sprintf("Invalid boot parameter name %q", key),
			"Parameter names look like GRUB_TIMEOUT or GRUB_CMDLINE_LINUX")
	}
	if strings.ContainsAny(value, "\"\n") {
		return errors.New(errors.ErrParse,
			"Boot parameter values cannot contain quotes or newlines", "")
	}

	newLine := key + `="` + value + `"`

	// Rewrite the last definition, since that is the one GRUB honors
	target := -1
	for i, line := range g.lines {
		if p, ok := lineParam(line); ok && p.Key == key {
			target = i
		}
	}
	if target >= 0 {
		g.lines[target] = newLine
		return nil
	}

	// Append before the trailing empty element so the file keeps its
	// final newline
	if n := len(g.lines); n > 0 && g.lines[n-1] == "" {
		g.lines = append(g.lines[:n-1], newLine, "")
	} else {
		g.lines = append(g.lines, newLine)
	}
	return nil
}

// LoadGrub reads and parses the boot configuration. Reading needs no
// privileges; the file is world-readable on every mainstream distro.
func (c *Controller) LoadGrub() (*GrubConfig, error) {
	data, err := os.ReadFile(c.grubPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewUnavailable("boot configuration",
				"no GRUB defaults file at "+c.grubPath)
		}
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to read "+c.grubPath, "")
	}
	return parseGrubContent(c.grubPath, string(data)), nil
}

// SaveGrub writes an edited configuration back. The protocol is fixed:
// re-read the current file, copy it to a timestamped backup, then write
// the new content. A failed backup aborts with the file untouched. Both
// writes go through tee under the runner so the UI keeps its own stdio.
func (c *Controller) SaveGrub(ctx context.Context, cfg *GrubConfig) error {
	if !c.gate.AllowMutations() {
		return errors.NewPermissionDenied("editing the boot configuration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := os.ReadFile(cfg.path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExternal,
			"Could not read the current boot configuration, nothing was changed", "")
	}

	backupPath := fmt.Sprintf("%s.bak.%d", cfg.path, time.Now().Unix())
	name, args := c.command("tee", backupPath)
	res, err := c.runner.RunInput(ctx, string(current), name, args...)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeOf(err),
			"Backup failed, boot configuration unchanged", "")
	}
	if !res.Ok() {
		return errors.New(errors.ErrExternal,
			"Backup failed, boot configuration unchanged: "+strings.TrimSpace(res.Stderr), "")
	}

	name, args = c.command("tee", cfg.path)
	res, err = c.runner.RunInput(ctx, cfg.Render(), name, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return errors.New(errors.ErrExternal,
			fmt.Sprintf("Writing %s failed: %s", cfg.path, strings.TrimSpace(res.Stderr)),
			"The previous contents are preserved at "+backupPath)
	}

	c.log.Info("boot configuration written, backup at %s", backupPath)
	return nil
}
