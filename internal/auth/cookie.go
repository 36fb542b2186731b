package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieSigner はSESSION_SECRETを鍵としたHMAC-SHA256でCookie値に署名する。
// 署名済みの値は "<value>.<base64url(mac)>" の形式になる。
type CookieSigner struct {
	key []byte
}

// NewCookieSigner はCookieSignerを生成する。
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{key: []byte(secret)}
}

// Sign は値に署名を付与する。
func (s *CookieSigner) Sign(value string) string {
	return value + "." + base64.RawURLEncoding.EncodeToString(s.mac(value))
}

// Verify は署名を検証し、元の値を返す。
// 署名が一致しない場合や形式が不正な場合はfalseを返す。
func (s *CookieSigner) Verify(signed string) (string, bool) {
	i := strings.LastIndexByte(signed, '.')
	if i <= 0 || i == len(signed)-1 {
		return "", false
	}
	value, encoded := signed[:i], signed[i+1:]

	sig, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(sig, s.mac(value)) {
		return "", false
	}
	return value, true
}

func (s *CookieSigner) mac(value string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(value))
	return h.Sum(nil)
}
