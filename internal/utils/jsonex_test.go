// internal/utils/jsonex_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_MarkdownFence(t *testing.T) {
	raw := "Here is your script:\n```json\n{\"hook\": \"wow\"}\n```\nHope you like it!"

	fragment, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"hook": "wow"}`, fragment)
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	raw := `prefix {"a": {"b": {"c": 1}}, "d": [1, 2]} suffix`

	fragment, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": {"c": 1}}, "d": [1, 2]}`, fragment)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	raw := `{"text": "a } inside a string", "more": "{ still fine"}`

	fragment, err := ExtractJSONObject(raw)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, DecodeObjectLenient(fragment, &decoded))
	assert.Equal(t, "a } inside a string", decoded["text"])
}

func TestExtractJSONObject_EscapedQuotes(t *testing.T) {
	raw := `{"text": "she said \"hi\" twice"}`

	var decoded map[string]string
	require.NoError(t, DecodeObjectLenient(raw, &decoded))
	assert.Equal(t, `she said "hi" twice`, decoded["text"])
}

func TestExtractJSONObject_NoJSON(t *testing.T) {
	_, err := ExtractJSONObject("just some plain prose without structure")
	assert.ErrorIs(t, err, ErrNoJSONFound)
}

func TestExtractJSONObject_UnbalancedFallsBackToLastClose(t *testing.T) {
	// 模型偶尔在字符串里留下未配对的开括号，回退到最后一个闭括号
	raw := `{"a": 1} trailing {`

	fragment, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, fragment)
}

func TestExtractJSONArray_SurroundingProse(t *testing.T) {
	raw := "Sure! Here are the sentences:\n[\"one\", \"two\", \"three\"]\nEnjoy."

	var sentences []string
	require.NoError(t, DecodeArrayLenient(raw, &sentences))
	assert.Equal(t, []string{"one", "two", "three"}, sentences)
}

func TestDecodeObjectLenient_ZeroWidthCharacters(t *testing.T) {
	raw := "\ufeff{\"key\":\u200b \"value\"}"

	var decoded map[string]string
	require.NoError(t, DecodeObjectLenient(raw, &decoded))
	assert.Equal(t, "value", decoded["key"])
}

func TestDecodeObjectLenient_FullWidthPunctuation(t *testing.T) {
	raw := `{"key"： "value"， "n"： 1}`

	var decoded map[string]interface{}
	require.NoError(t, DecodeObjectLenient(raw, &decoded))
	assert.Equal(t, "value", decoded["key"])
	assert.Equal(t, float64(1), decoded["n"])
}

func TestDecodeObjectLenient_FullWidthInsideStringPreserved(t *testing.T) {
	// 结构位置的全角标点被归一化，字符串内容原样保留
	raw := `{"title"： "标题：示例，完整保留"， "n": 1}`

	var decoded map[string]interface{}
	require.NoError(t, DecodeObjectLenient(raw, &decoded))
	assert.Equal(t, "标题：示例，完整保留", decoded["title"])
	assert.Equal(t, float64(1), decoded["n"])
}

func TestDecodeObjectLenient_InvalidJSON(t *testing.T) {
	var decoded map[string]string
	err := DecodeObjectLenient(`{"key": unquoted}`, &decoded)
	assert.Error(t, err)
}
