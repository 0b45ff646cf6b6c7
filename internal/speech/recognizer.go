package speech

// Status 采集会话状态
type Status int

const (
	StatusIdle Status = iota
	StatusListening
)

// ErrorCode 语音识别错误分类（与 Web Speech API 错误码对齐）
type ErrorCode string

const (
	ErrNoSpeech             ErrorCode = "no-speech"
	ErrAudioCapture         ErrorCode = "audio-capture"
	ErrNotAllowed           ErrorCode = "not-allowed"
	ErrNetwork              ErrorCode = "network"
	ErrServiceNotAllowed    ErrorCode = "service-not-allowed"
	ErrBadGrammar           ErrorCode = "bad-grammar"
	ErrLanguageNotSupported ErrorCode = "language-not-supported"
	ErrAborted              ErrorCode = "aborted"
)

// errorMessages 每个错误分类对应的用户可读消息
var errorMessages = map[ErrorCode]string{
	ErrNoSpeech:             "لم يتم التقاط أي كلام، حاول التحدث مرة أخرى.",
	ErrAudioCapture:         "تعذر الوصول إلى الميكروفون، تأكد من توصيله بشكل صحيح.",
	ErrNotAllowed:           "تم رفض إذن استخدام الميكروفون، فعّله من إعدادات المتصفح.",
	ErrNetwork:              "انقطع الاتصال بالشبكة أثناء التعرف على الصوت.",
	ErrServiceNotAllowed:    "خدمة التعرف على الصوت غير متاحة على هذا الجهاز.",
	ErrBadGrammar:           "حدث خطأ في قواعد التعرف على الصوت.",
	ErrLanguageNotSupported: "اللغة المحددة غير مدعومة للتعرف على الصوت.",
	ErrAborted:              "تم إيقاف جلسة الاستماع.",
}

// Message 返回错误分类的用户可读消息
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "حدث خطأ غير متوقع أثناء التعرف على الصوت."
}

// IsTransient 是否为瞬态错误（触发有界自动重启）
func IsTransient(c ErrorCode) bool {
	switch c {
	case ErrNoSpeech, ErrAudioCapture, ErrNetwork:
		return true
	}
	return false
}

// PermissionState 麦克风权限状态
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
	PermissionUnknown PermissionState = "unknown" // 平台无法直接上报
)

// Config 传给平台能力的采集参数
type Config struct {
	Language       string
	Continuous     bool
	InterimResults bool
}

// Events 平台事件回调集，由 Manager 在 Start 时注入
type Events struct {
	OnResult      func(text string, isFinal bool)
	OnError       func(code ErrorCode)
	OnEnd         func()
	OnSpeechStart func()
	OnSpeechEnd   func()
}

// Recognizer 平台语音识别能力接口
//
// 把浏览器 / 操作系统的语音输入抽象成可注入的依赖，使重试状态机可以
// 在没有真实麦克风的环境下用 ScriptedRecognizer 做单元测试。
type Recognizer interface {
	Supported() bool
	Start(config Config, events Events) error
	Stop()
	Abort()
	Permission() PermissionState
}

// Options 一次采集会话的配置与回调
type Options struct {
	Language       string
	Continuous     bool
	InterimResults bool

	OnStart       func()
	OnResult      func(text string, isFinal bool)
	OnError       func(code ErrorCode, message string)
	OnEnd         func()
	OnSpeechStart func()
	OnSpeechEnd   func()
}
