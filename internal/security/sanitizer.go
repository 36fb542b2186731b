// Package security は入力値の無害化と外向きHTTP通信の保護を提供する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は自由入力テキストから全てのHTMLを除去する。
// bluemondayのStrictPolicyはスレッドセーフなため、1インスタンスを共有してよい。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はStrictPolicyを持つTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// plainTextUnescaper はbluemondayがエスケープしたアンパサンドと引用符のみを戻す。
// &lt; と &gt; はエスケープしたまま残し、保存値がマークアップとして解釈されないようにする。
// 1パスで置換するため、&amp;lt; は &lt; になるだけで < にはならない。
var plainTextUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&#39;", "'",
	"&#34;", `"`,
	"&quot;", `"`,
)

// Sanitize はタグを除去し、前後の空白を取り除いたプレーンテキストを返す。
func (s *TextSanitizer) Sanitize(input string) string {
	if input == "" {
		return ""
	}
	cleaned := s.policy.Sanitize(input)
	return strings.TrimSpace(plainTextUnescaper.Replace(cleaned))
}
