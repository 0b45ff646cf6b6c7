package speech

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Manager 语音采集状态机
//
// 在平台能力之上提供稳定的 start/stop 抽象：瞬态错误（no-speech、
// audio-capture、network）自动重启，最多 3 次、每次延迟约 1 秒；非瞬态
// 错误立即回到 Idle。同一时刻至多一个 Listening 会话。
type Manager struct {
	mu         sync.Mutex
	rec        Recognizer
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration

	status     Status
	retryCount int
	opts       Options
	config     Config
	retryTimer *time.Timer
	stopping   bool
}

// NewManager 创建采集状态机
func NewManager(rec Recognizer, logger *zap.Logger) *Manager {
	return &Manager{
		rec:        rec,
		logger:     logger,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// IsSupported 平台是否支持语音识别
func (m *Manager) IsSupported() bool {
	return m.rec.Supported()
}

// IsListening 是否处于 Listening 状态（含待定重启期间）
func (m *Manager) IsListening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusListening
}

// Start 开始采集，拒绝时返回 false 并触发错误回调，无副作用
func (m *Manager) Start(opts Options) bool {
	if !m.rec.Supported() {
		m.logger.Warn("平台不支持语音识别")
		if opts.OnError != nil {
			opts.OnError(ErrServiceNotAllowed, ErrServiceNotAllowed.Message())
		}
		return false
	}

	m.mu.Lock()
	if m.status == StatusListening {
		m.mu.Unlock()
		m.logger.Warn("已有采集会话在进行中，拒绝启动")
		if opts.OnError != nil {
			opts.OnError(ErrAborted, "جلسة استماع قيد التشغيل بالفعل.")
		}
		return false
	}

	m.opts = opts
	m.config = Config{
		Language:       opts.Language,
		Continuous:     opts.Continuous,
		InterimResults: opts.InterimResults,
	}
	m.stopping = false
	config := m.config
	m.mu.Unlock()

	if err := m.rec.Start(config, m.events()); err != nil {
		m.logger.Error("启动语音采集失败", zap.Error(err))
		m.mu.Lock()
		m.opts = Options{}
		m.mu.Unlock()
		if opts.OnError != nil {
			opts.OnError(ErrAudioCapture, ErrAudioCapture.Message())
		}
		return false
	}

	m.mu.Lock()
	m.status = StatusListening
	m.retryCount = 0 // 成功启动重置重试计数
	m.mu.Unlock()

	m.logger.Info("语音采集已启动",
		zap.String("language", opts.Language),
		zap.Bool("continuous", opts.Continuous))

	if opts.OnStart != nil {
		opts.OnStart()
	}
	return true
}

// Stop 停止采集：取消待定重启、复位重试计数，正常 end 事件随后触发
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopping = true
	m.cancelRetryLocked()
	m.retryCount = 0
	m.mu.Unlock()

	m.rec.Stop()
}

// Abort 硬停止变体，清理保证与 Stop 相同
func (m *Manager) Abort() {
	m.mu.Lock()
	m.stopping = true
	m.cancelRetryLocked()
	m.retryCount = 0
	m.mu.Unlock()

	m.rec.Abort()
}

// CheckPermission 幂等的权限探测
//
// 平台能直接上报时返回上报值；无法上报时退化为一次短暂的启动-中止探测。
func (m *Manager) CheckPermission(ctx context.Context) (PermissionState, error) {
	if err := ctx.Err(); err != nil {
		return PermissionUnknown, err
	}

	if state := m.rec.Permission(); state != PermissionUnknown {
		return state, nil
	}

	if m.IsListening() {
		// 正在采集说明权限已授予，不做探测以免打断会话
		return PermissionGranted, nil
	}

	if err := m.rec.Start(Config{Language: "ar-SY"}, Events{}); err != nil {
		return PermissionDenied, nil
	}
	m.rec.Abort()
	return PermissionGranted, nil
}

// events 构建注入平台能力的事件回调集
func (m *Manager) events() Events {
	return Events{
		OnResult:      m.handleResult,
		OnError:       m.handleError,
		OnEnd:         m.handleEnd,
		OnSpeechStart: m.handleSpeechStart,
		OnSpeechEnd:   m.handleSpeechEnd,
	}
}

// handleResult 结果事件：interim 未开启时丢弃中间结果
func (m *Manager) handleResult(text string, isFinal bool) {
	m.mu.Lock()
	opts := m.opts
	m.mu.Unlock()

	if !isFinal && !opts.InterimResults {
		return
	}
	if opts.OnResult != nil {
		opts.OnResult(text, isFinal)
	}
}

// handleError 错误事件：瞬态错误在预算内计划自动重启，否则回到 Idle
func (m *Manager) handleError(code ErrorCode) {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return
	}
	opts := m.opts

	if IsTransient(code) && m.retryCount < m.maxRetries {
		m.retryCount++
		attempt := m.retryCount
		m.retryTimer = time.AfterFunc(m.retryDelay, m.restart)
		m.mu.Unlock()

		m.logger.Info("瞬态采集错误，计划自动重启",
			zap.String("code", string(code)),
			zap.Int("attempt", attempt),
			zap.Int("max", m.maxRetries))
		return
	}

	m.status = StatusIdle
	m.retryCount = 0
	m.cancelRetryLocked()
	m.mu.Unlock()

	m.logger.Warn("采集错误，会话终止",
		zap.String("code", string(code)),
		zap.Bool("transient", IsTransient(code)))

	if opts.OnError != nil {
		opts.OnError(code, code.Message())
	}
}

// restart 重试定时器到期后，用同一配置重新启动平台能力
func (m *Manager) restart() {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return
	}
	m.retryTimer = nil
	config := m.config
	m.mu.Unlock()

	m.logger.Debug("自动重启语音采集", zap.String("language", config.Language))

	if err := m.rec.Start(config, m.events()); err != nil {
		m.logger.Error("自动重启失败", zap.Error(err))
		m.handleError(ErrAudioCapture)
	}
}

// handleEnd 结束事件：无论会话如何终止都会触发 OnEnd 回调
func (m *Manager) handleEnd() {
	m.mu.Lock()
	opts := m.opts
	retryPending := m.retryTimer != nil
	if !retryPending {
		m.status = StatusIdle
	}
	if m.stopping {
		// Stop/Abort 之后复位存储的配置
		m.opts = Options{}
		m.retryCount = 0
	}
	m.mu.Unlock()

	if opts.OnEnd != nil {
		opts.OnEnd()
	}
}

func (m *Manager) handleSpeechStart() {
	m.mu.Lock()
	opts := m.opts
	m.mu.Unlock()
	if opts.OnSpeechStart != nil {
		opts.OnSpeechStart()
	}
}

func (m *Manager) handleSpeechEnd() {
	m.mu.Lock()
	opts := m.opts
	m.mu.Unlock()
	if opts.OnSpeechEnd != nil {
		opts.OnSpeechEnd()
	}
}

// cancelRetryLocked 取消待定的自动重启
func (m *Manager) cancelRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}
