package speech

import "sync"

// ScriptedRecognizer Recognizer 的脚本化实现
//
// 不接触真实麦克风：事件由调用方通过 Emit* 方法注入，用于状态机的
// 单元测试和 voice-demo 的脚本回放。
type ScriptedRecognizer struct {
	mu         sync.Mutex
	supported  bool
	permission PermissionState
	startErr   error
	listening  bool
	events     Events

	startCalls int
	stopCalls  int
	abortCalls int
}

// NewScriptedRecognizer 创建脚本化识别器（默认支持、权限未知）
func NewScriptedRecognizer() *ScriptedRecognizer {
	return &ScriptedRecognizer{
		supported:  true,
		permission: PermissionUnknown,
	}
}

// SetSupported 设置平台支持标志
func (r *ScriptedRecognizer) SetSupported(supported bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supported = supported
}

// SetPermission 设置权限上报值
func (r *ScriptedRecognizer) SetPermission(state PermissionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permission = state
}

// SetStartError 让后续 Start 调用返回指定错误
func (r *ScriptedRecognizer) SetStartError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startErr = err
}

func (r *ScriptedRecognizer) Supported() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.supported
}

func (r *ScriptedRecognizer) Start(config Config, events Events) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.startCalls++
	if r.startErr != nil {
		return r.startErr
	}
	r.listening = true
	r.events = events
	return nil
}

func (r *ScriptedRecognizer) Stop() {
	r.mu.Lock()
	r.stopCalls++
	r.listening = false
	events := r.events
	r.mu.Unlock()

	if events.OnEnd != nil {
		events.OnEnd()
	}
}

func (r *ScriptedRecognizer) Abort() {
	r.mu.Lock()
	r.abortCalls++
	r.listening = false
	events := r.events
	r.mu.Unlock()

	if events.OnEnd != nil {
		events.OnEnd()
	}
}

func (r *ScriptedRecognizer) Permission() PermissionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.permission
}

// EmitResult 注入一条识别结果事件
func (r *ScriptedRecognizer) EmitResult(text string, isFinal bool) {
	r.mu.Lock()
	events := r.events
	r.mu.Unlock()

	if events.OnResult != nil {
		events.OnResult(text, isFinal)
	}
}

// EmitError 注入一条错误事件
func (r *ScriptedRecognizer) EmitError(code ErrorCode) {
	r.mu.Lock()
	events := r.events
	r.mu.Unlock()

	if events.OnError != nil {
		events.OnError(code)
	}
}

// EmitEnd 注入一条结束事件
func (r *ScriptedRecognizer) EmitEnd() {
	r.mu.Lock()
	r.listening = false
	events := r.events
	r.mu.Unlock()

	if events.OnEnd != nil {
		events.OnEnd()
	}
}

// EmitSpeechStart 注入说话开始事件
func (r *ScriptedRecognizer) EmitSpeechStart() {
	r.mu.Lock()
	events := r.events
	r.mu.Unlock()

	if events.OnSpeechStart != nil {
		events.OnSpeechStart()
	}
}

// StartCalls Start 被调用的次数
func (r *ScriptedRecognizer) StartCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startCalls
}

// StopCalls Stop 被调用的次数
func (r *ScriptedRecognizer) StopCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCalls
}

// AbortCalls Abort 被调用的次数
func (r *ScriptedRecognizer) AbortCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.abortCalls
}

// IsListeningNow 平台侧是否在采集
func (r *ScriptedRecognizer) IsListeningNow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}
