// internal/utils/jsonex.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// 模型返回的文本经常把JSON包在Markdown围栏或说明文字里，
// 这里提供宽容的提取与解码：先清洗噪声，再按括号配对截取第一个完整片段
var ErrNoJSONFound = errors.New("no JSON fragment found in text")

var jsonNoiseReplacer = strings.NewReplacer(
	"```json", "",
	"```", "",
	"\ufeff", "",
	"\u00a0", " ",
	"\u2028", "\n",
	"\u2029", "\n",
)

var structuralPunctuationMap = map[rune]rune{
	'：': ':',
	'，': ',',
	'；': ';',
	'【': '[',
	'】': ']',
	'｛': '{',
	'｝': '}',
}

// ExtractJSONObject 从自由文本中提取第一个平衡的 {...} 片段
func ExtractJSONObject(raw string) (string, error) {
	return extractBalanced(raw, '{', '}')
}

// ExtractJSONArray 从自由文本中提取第一个平衡的 [...] 片段
func ExtractJSONArray(raw string) (string, error) {
	return extractBalanced(raw, '[', ']')
}

// DecodeObjectLenient 宽容解码：清洗、截取后反序列化到 target
func DecodeObjectLenient(raw string, target interface{}) error {
	fragment, err := ExtractJSONObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(fragment), target); err != nil {
		return fmt.Errorf("decode extracted JSON object: %w", err)
	}
	return nil
}

// DecodeArrayLenient 与 DecodeObjectLenient 相同，但目标是JSON数组
func DecodeArrayLenient(raw string, target interface{}) error {
	fragment, err := ExtractJSONArray(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(fragment), target); err != nil {
		return fmt.Errorf("decode extracted JSON array: %w", err)
	}
	return nil
}

// cleanNoise 去除围栏标记、零宽字符和字符串外的全角标点
func cleanNoise(s string) string {
	s = jsonNoiseReplacer.Replace(s)
	s = strings.TrimSpace(s)

	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\u2060':
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return normalizeStructuralPunctuation(s)
}

// normalizeStructuralPunctuation \u628a\u5b57\u7b26\u4e32\u5b57\u9762\u91cf\u4e4b\u5916\u7684\u5168\u89d2\u6807\u70b9\u66ff\u6362\u4e3aASCII\u7b49\u4ef7\u7269
// \u5b57\u7b26\u4e32\u5185\u90e8\u7684\u5185\u5bb9\u539f\u6837\u4fdd\u7559
func normalizeStructuralPunctuation(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	inString := false
	escaped := false

	for _, r := range s {
		if escaped {
			escaped = false
			builder.WriteRune(r)
			continue
		}

		if inString && r == '\\' {
			escaped = true
			builder.WriteRune(r)
			continue
		}

		if r == '"' {
			inString = !inString
			builder.WriteRune(r)
			continue
		}

		if !inString {
			if replacement, ok := structuralPunctuationMap[r]; ok {
				builder.WriteRune(replacement)
				continue
			}
		}

		builder.WriteRune(r)
	}

	return builder.String()
}

// extractBalanced 简单的括号计数匹配，跳过字符串字面量内部的括号
func extractBalanced(raw string, open, close byte) (string, error) {
	s := cleanNoise(raw)

	start := strings.IndexByte(s, open)
	if start == -1 {
		return "", ErrNoJSONFound
	}
	s = s[start:]

	balance := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == open {
				balance++
			} else if char == close {
				balance--
			}

			if balance == 0 {
				return strings.TrimSpace(s[:i+1]), nil
			}
		}
	}

	// 没找到匹配的结束符，回退到最后一个出现的位置
	end := strings.LastIndexByte(s, close)
	if end == -1 {
		return "", ErrNoJSONFound
	}
	return strings.TrimSpace(s[:end+1]), nil
}
