package game

import (
	"context"
	"time"

	"soumahjong/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// LoadInfo 负载信息
type LoadInfo struct {
	Sessions    int     `json:"sessions"`
	MaxSessions int     `json:"maxSessions"`
	CPUUsage    float64 `json:"cpuUsage"` // 百分比
	MemUsage    float64 `json:"memUsage"` // 百分比
}

// CalculateLoad 0-100，会话占比 50%，CPU 30%，内存 20%；不限会话数时只看 CPU 和内存
func (l *LoadInfo) CalculateLoad() float64 {
	if l.MaxSessions <= 0 {
		return clampPercent(0.6*l.CPUUsage + 0.4*l.MemUsage)
	}
	sessions := float64(l.Sessions) / float64(l.MaxSessions) * 100
	return clampPercent(0.5*sessions + 0.3*l.CPUUsage + 0.2*l.MemUsage)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// HostSampler 采集 CPU 与内存使用率
type HostSampler func(ctx context.Context) (cpuUsage, memUsage float64, err error)

// Monitor 定期记录负载并清理空闲会话
type Monitor struct {
	sessions       *SessionManager
	updateInterval time.Duration
	idle           time.Duration
	sample         HostSampler
	stopCh         chan struct{}
}

// NewMonitor idle <= 0 时不清理会话
func NewMonitor(sessions *SessionManager, updateInterval, idle time.Duration) *Monitor {
	return &Monitor{
		sessions:       sessions,
		updateInterval: updateInterval,
		idle:           idle,
		sample:         sampleHost,
		stopCh:         make(chan struct{}),
	}
}

// Start 阻塞运行，ctx 结束或 Stop 后返回
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) tick(ctx context.Context) {
	if m.idle > 0 {
		m.sessions.RemoveIdle(m.idle)
	}
	info := m.Collect(ctx)
	log.Debug("负载: %.2f，会话: %d/%d，CPU: %.2f%%，内存: %.2f%%",
		info.CalculateLoad(), info.Sessions, info.MaxSessions, info.CPUUsage, info.MemUsage)
}

// Collect 采集失败时 CPU 与内存记为 0
func (m *Monitor) Collect(ctx context.Context) *LoadInfo {
	info := &LoadInfo{
		Sessions:    m.sessions.Count(),
		MaxSessions: m.sessions.Limit(),
	}
	cpuUsage, memUsage, err := m.sample(ctx)
	if err != nil {
		log.Warn("采集主机负载失败: %v", err)
		return info
	}
	info.CPUUsage, info.MemUsage = cpuUsage, memUsage
	return info
}

func sampleHost(ctx context.Context) (float64, float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	cpuUsage := 0.0
	if len(percents) > 0 {
		cpuUsage = percents[0]
	}
	return cpuUsage, vm.UsedPercent, nil
}
