package knowledge

import "strings"

// Normalize 归一化输入：小写、去首尾空白、去除阿拉伯语变音符号、统一字母变体
//
// 关键词表按归一化后的形式存储，匹配前必须先经过本函数。
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		// 跳过 tashkeel 等组合符号与 tatweel 拉长符
		if (r >= 0x0610 && r <= 0x061A) ||
			(r >= 0x064B && r <= 0x065F) ||
			r == 0x0670 || r == 0x0640 {
			continue
		}

		switch r {
		case 'أ', 'إ', 'آ', 'ٱ':
			builder.WriteRune('ا')
		case 'ى':
			builder.WriteRune('ي')
		default:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// containsAny 是否包含任一关键词（关键词需已归一化）
func containsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
