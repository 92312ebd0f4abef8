package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// resetTokenCharset はリセットトークンに使用する文字集合。
// URLのパスセグメントにそのまま埋め込めるよう英小文字と数字のみとする。
const resetTokenCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// resetTokenLength はリセットトークンの長さ。
const resetTokenLength = 13

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// generateResetToken は短いランダムな英数字のリセットトークンを生成する。
// 256は文字集合の36で割り切れないため、単純な剰余では先頭の文字に偏りが出る。
// 36の倍数未満のバイトのみ採用することで各文字の出現確率を一様にする。
func generateResetToken() (string, error) {
	const limit = byte(256 / len(resetTokenCharset) * len(resetTokenCharset)) // 252

	token := make([]byte, 0, resetTokenLength)
	buf := make([]byte, resetTokenLength)
	for len(token) < resetTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if v >= limit {
				continue
			}
			token = append(token, resetTokenCharset[int(v)%len(resetTokenCharset)])
			if len(token) == resetTokenLength {
				break
			}
		}
	}
	return string(token), nil
}
