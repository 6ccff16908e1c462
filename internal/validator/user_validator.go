package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWeakPassword     = errors.New("password is too common")
	ErrFullNameRequired = errors.New("full_name is required")
	ErrFullNameTooLong  = errors.New("full_name is too long")
)

const (
	minPasswordLen = 8
	maxFullNameLen = 255
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":    {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwertyuiop":  {},
	"letmein123":  {},
	"admin123":    {},
}

type UserValidator struct{}

func NewUserValidator() *UserValidator {
	return &UserValidator{}
}

// 会員登録の入力を検証
func (v *UserValidator) ValidateRegister(email, password, fullName string) error {
	if err := v.ValidateEmail(email); err != nil {
		return err
	}
	if err := v.ValidatePassword(password); err != nil {
		return err
	}
	name := strings.TrimSpace(fullName)
	if name == "" {
		return ErrFullNameRequired
	}
	if utf8.RuneCountInString(name) > maxFullNameLen {
		return ErrFullNameTooLong
	}
	return nil
}

func (v *UserValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (v *UserValidator) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if _, ok := weakPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return ErrWeakPassword
	}
	return nil
}
