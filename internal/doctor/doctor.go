package doctor

import (
	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/privilege"
)

// All assembles every diagnostic check for one run. Category order here is
// the display order.
func All(gate privilege.Gate, runner exec.Runner, cfg *config.Config, configPath string) []Check {
	checks := NewPrivilegeChecks(gate, runner)
	checks = append(checks, NewServiceChecks(runner)...)
	checks = append(checks, NewContainerChecks(cfg.Docker && gate.PollContainers())...)
	checks = append(checks, NewGPUChecks(cfg.GPU && gate.PollGPU(), runner)...)
	checks = append(checks, NewConfigChecks(configPath, cfg.GrubPath)...)
	return checks
}

// Categories is the fixed display order for check groups.
var Categories = []string{"PRIVILEGE", "SERVICES", "CONTAINERS", "GPU", "CONFIG"}
