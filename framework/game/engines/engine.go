package engines

type engineType int32

const (
	SOLO_SOUZU_ENGINE engineType = iota // 单人索子 游戏引擎
)

func (t engineType) String() string {
	switch t {
	case SOLO_SOUZU_ENGINE:
		return "solo-souzu"
	default:
		return "unknown"
	}
}

// Diagnostics 引擎诊断输出，由宿主注入，引擎内部不持有全局 logger
type Diagnostics interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// NopDiagnostics 丢弃所有诊断输出
type NopDiagnostics struct{}

func (NopDiagnostics) Debug(string, ...any) {}
func (NopDiagnostics) Info(string, ...any) {}
func (NopDiagnostics) Warn(string, ...any) {}

// OrNop 未注入时返回 NopDiagnostics
func OrNop(d Diagnostics) Diagnostics {
	if d == nil {
		return NopDiagnostics{}
	}
	return d
}
