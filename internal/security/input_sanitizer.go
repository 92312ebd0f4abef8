// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザー入力の自由記述テキスト（組織名、担当者名、
// 経費の説明等）からHTMLタグを除去し、格納データへのスクリプト混入を防ぐ。
// bluemondayのStrictPolicyによる全タグ除去を行う。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// ドメインサービスの書き込み系操作の前段で使用される。
type InputSanitizerService interface {
	// Sanitize は入力テキストからすべてのHTMLタグを除去し、
	// 前後の空白をトリムして返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのHTML要素と属性を除去する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからすべてのHTMLタグを除去する。
func (s *inputSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// compile-time interface check
var _ InputSanitizerService = (*inputSanitizer)(nil)
