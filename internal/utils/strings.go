// internal/utils/strings.go
package utils

import "unicode/utf8"

// TruncateRunes 按字符数截断字符串
// 以rune为单位，多字节字符不会被从中间切断
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
