package metrics

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/util"
)

// dockerAPI is the slice of the Engine API client the collector uses.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerStatsOneShot(ctx context.Context, containerID string) (types.ContainerStats, error)
}

// cpuSample holds the cumulative CPU counters from one stats read, kept
// between cycles to compute usage deltas. One-shot stats reads carry no
// precpu baseline, so the collector maintains its own across cycles.
type cpuSample struct {
	total  uint64
	system uint64
}

// DockerCollector reads container state and resource usage from the Docker
// daemon. A daemon that is not running or not reachable is a normal
// condition and reports unavailable, never an error.
type DockerCollector struct {
	api  dockerAPI
	prev map[string]cpuSample
}

// NewDockerCollector creates a container collector. The client is built from
// the environment (DOCKER_HOST et al) but does not dial until the first
// cycle, so a daemon that starts later is picked up automatically.
func NewDockerCollector() *DockerCollector {
	c := &DockerCollector{prev: make(map[string]cpuSample)}
	if cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation()); err == nil {
		c.api = cli
	}
	return c
}

// Name implements Collector.
func (c *DockerCollector) Name() string { return "docker" }

// Collect implements Collector.
func (c *DockerCollector) Collect(ctx context.Context) (Apply, error) {
	if c.api == nil {
		return nil, errors.NewUnavailable("docker", "docker client could not be configured")
	}

	list, err := c.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, mapDockerError(err)
	}

	stats := make([]ContainerStats, len(list))
	next := make(map[string]cpuSample, len(list))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, ct := range list {
		stats[i] = ContainerStats{
			ID:     shortID(ct.ID),
			Name:   containerName(ct),
			Image:  ct.Image,
			State:  ct.State,
			Health: healthFrom(ct.Status),
		}

		if ct.State != "running" {
			continue
		}

		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			usage, sample, ok := c.readStats(ctx, id)
			if !ok {
				return
			}

			mu.Lock()
			stats[i].CPUPercent = usage.cpuPercent
			stats[i].MemUsage = usage.memUsage
			stats[i].MemLimit = usage.memLimit
			stats[i].MemPercent = usage.memPercent
			stats[i].NetRx = usage.netRx
			stats[i].NetTx = usage.netTx
			stats[i].BlockRead = usage.blockRead
			stats[i].BlockWrite = usage.blockWrite
			next[id] = sample
			mu.Unlock()
		}(i, ct.ID)
	}

	wg.Wait()
	c.prev = next

	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	return func(s *SystemSnapshot) { s.Containers = stats }, nil
}

// containerUsage is the decoded, delta-adjusted resource usage of one
// running container.
type containerUsage struct {
	cpuPercent float64
	memUsage   uint64
	memLimit   uint64
	memPercent float64
	netRx      uint64
	netTx      uint64
	blockRead  uint64
	blockWrite uint64
}

// readStats fetches and decodes one container's stats.
func (c *DockerCollector) readStats(ctx context.Context, id string) (containerUsage, cpuSample, bool) {
	resp, err := c.api.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return containerUsage{}, cpuSample{}, false
	}
	defer resp.Body.Close()

	var sj types.StatsJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		return containerUsage{}, cpuSample{}, false
	}

	sample := cpuSample{
		total:  sj.CPUStats.CPUUsage.TotalUsage,
		system: sj.CPUStats.SystemUsage,
	}

	usage := containerUsage{
		memUsage: memUsageNoCache(&sj.MemoryStats),
		memLimit: sj.MemoryStats.Limit,
	}
	usage.memPercent = util.SafePercent(float64(usage.memUsage), float64(usage.memLimit))
	usage.cpuPercent = cpuPercentFrom(c.prev[id], &sj)

	for _, nw := range sj.Networks {
		usage.netRx += nw.RxBytes
		usage.netTx += nw.TxBytes
	}

	for _, entry := range sj.BlkioStats.IoServiceBytesRecursive {
		switch strings.ToLower(entry.Op) {
		case "read":
			usage.blockRead += entry.Value
		case "write":
			usage.blockWrite += entry.Value
		}
	}

	return usage, sample, true
}

// cpuPercentFrom computes CPU usage the way docker stats does, except the
// baseline is this collector's previous cycle instead of the precpu field,
// which one-shot reads leave empty. The first sighting of a container
// reports 0%.
func cpuPercentFrom(prev cpuSample, sj *types.StatsJSON) float64 {
	if prev.total == 0 && prev.system == 0 {
		return 0
	}

	cpuDelta := float64(util.CounterDelta(sj.CPUStats.CPUUsage.TotalUsage, prev.total))
	sysDelta := float64(util.CounterDelta(sj.CPUStats.SystemUsage, prev.system))
	if sysDelta <= 0 || cpuDelta < 0 {
		return 0
	}

	online := float64(sj.CPUStats.OnlineCPUs)
	if online == 0 {
		online = float64(len(sj.CPUStats.CPUUsage.PercpuUsage))
	}
	if online == 0 {
		return 0
	}

	return cpuDelta / sysDelta * online * 100
}

// memUsageNoCache subtracts page cache the way the docker CLI does, so the
// number matches what `docker stats` shows on both cgroup v1 and v2.
func memUsageNoCache(ms *types.MemoryStats) uint64 {
	usage := ms.Usage
	if v, ok := ms.Stats["total_inactive_file"]; ok && v < usage {
		return usage - v
	}
	if v, ok := ms.Stats["inactive_file"]; ok && v < usage {
		return usage - v
	}
	return usage
}

// shortID returns the 12-character container ID form.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// containerName returns the primary name without the leading slash.
func containerName(ct types.Container) string {
	if len(ct.Names) == 0 {
		return shortID(ct.ID)
	}
	return strings.TrimPrefix(ct.Names[0], "/")
}

// healthFrom extracts the healthcheck verdict the engine folds into the
// status line, e.g. "Up 3 hours (healthy)". Containers without a
// healthcheck report nothing.
func healthFrom(status string) string {
	switch {
	case strings.Contains(status, "(healthy)"):
		return "healthy"
	case strings.Contains(status, "(unhealthy)"):
		return "unhealthy"
	case strings.Contains(status, "(health: starting)"):
		return "starting"
	}
	return ""
}

// mapDockerError classifies an Engine API failure.
func mapDockerError(err error) error {
	if client.IsErrConnectionFailed(err) ||
		strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
		return errors.NewUnavailable("docker", "docker daemon is not reachable")
	}
	if strings.Contains(err.Error(), "permission denied") {
		return errors.NewPermissionDenied("reading the docker socket")
	}
	return errors.WrapWithCode(err, errors.ErrExternal,
		"Failed to list containers", "")
}
