package control

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mfenwick/vigil/internal/errors"
)

var (
	// hostnameLabelRe is the RFC 1123 label shape.
	hostnameLabelRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	// timezoneRe matches tzdata names like UTC or America/New_York.
	timezoneRe = regexp.MustCompile(`^[A-Za-z_]+(/[A-Za-z0-9+\-_]+)*$`)
)

// validHostname accepts single labels and dotted FQDNs.
func validHostname(name string) bool {
	if name == "" || len(name) > 253 {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > 63 || !hostnameLabelRe.MatchString(label) {
			return false
		}
	}
	return true
}

// Hostname reads the configured hostname, preferring /etc/hostname over
// the kernel's transient value.
func (c *Controller) Hostname() (string, error) {
	if data, err := os.ReadFile("/etc/hostname"); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name, nil
		}
	}

	name, err := os.Hostname()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExternal,
			"Could not determine the hostname", "")
	}
	return name, nil
}

// Timezone reads the system timezone through timedatectl.
func (c *Controller) Timezone(ctx context.Context) (string, error) {
	res, err := c.runner.Run(ctx, "timedatectl", "show", "--value", "--property=Timezone")
	if err != nil {
		return "", err
	}

	tz := strings.TrimSpace(res.Stdout)
	if !res.Ok() || tz == "" {
		return "", errors.NewUnavailable("timezone", "timedatectl did not report a timezone")
	}
	return tz, nil
}

// SetHostname changes the static hostname through hostnamectl.
func (c *Controller) SetHostname(ctx context.Context, hostname string) error {
	if !c.gate.AllowMutations() {
		return errors.NewPermissionDenied("changing the hostname")
	}
	if !validHostname(hostname) {
		return errors.New(errors.ErrParse,
			fmt.Sprintf("Invalid hostname %q", hostname),
			"Hostnames are letters, digits, and hyphens, dot-separated")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name, args := c.command("hostnamectl", "set-hostname", hostname)
	res, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return commandFailed("hostnamectl set-hostname", res)
	}

	c.log.Info("hostname set to %s", hostname)
	return nil
}

// SetTimezone changes the system timezone through timedatectl.
func (c *Controller) SetTimezone(ctx context.Context, timezone string) error {
	if !c.gate.AllowMutations() {
		return errors.NewPermissionDenied("changing the timezone")
	}
	if !timezoneRe.MatchString(timezone) {
		return errors.New(errors.ErrParse,
			fmt.Sprintf("Invalid timezone %q", timezone),
			"Use a tzdata name like UTC or America/New_York")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name, args := c.command("timedatectl", "set-timezone", timezone)
	res, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return commandFailed("timedatectl set-timezone", res)
	}

	c.log.Info("timezone set to %s", timezone)
	return nil
}
