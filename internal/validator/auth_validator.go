package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrInvalidProfile   = errors.New("invalid profile")
)

// パスワード最低文字数
const MinPasswordLength = 6

// サインアップの入力を検証（email は正規化済みのもの）
func ValidateRegister(email string, password string, passwordConfirm string) error {
	if !isEmailLike(email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	// 必須チェック
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrInvalidInput
	}
	return nil
}

// プロフィール（氏名・電話・住所）を検証。空は許す。
func ValidateProfile(fullName string, phone string, address string) error {
	if utf8.RuneCountInString(fullName) > 255 || utf8.RuneCountInString(phone) > 32 || utf8.RuneCountInString(address) > 1000 {
		return ErrInvalidProfile
	}
	if phone != "" && !isPhone(phone) {
		return ErrInvalidProfile
	}
	return nil
}

// 強制ログアウトの入力を検証
func ValidateForceLogout(targetUserID int64) error {
	if targetUserID <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// メール形式をチェック（表示名付きは不可）
func isEmailLike(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// 数字（ペルシア数字も可）と + - 空白だけ、数字は7桁以上
func isPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= '۰' && r <= '۹':
			digits++
		case r == '+' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 7
}
