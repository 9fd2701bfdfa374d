package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// PhonePattern определяет допустимый формат номера телефона:
// только цифры, длина 8-15 символов.
var PhonePattern = regexp.MustCompile(`^[0-9]{8,15}$`)

const (
	// MaxNicknameLen максимальная длина псевдонима (в рунах)
	MaxNicknameLen = 20
	// MaxMessageLen максимальная длина сообщения к подарку (в рунах)
	MaxMessageLen = 50
	// MinPasswordLen минимальная длина пароля администратора
	MinPasswordLen = 6
)

// ValidatePhone проверяет, что номер телефона соответствует требованиям
// Формат: только цифры, длина 8-15 символов
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	if !PhonePattern.MatchString(phone) {
		return fmt.Errorf("phone must contain only digits (8-15 characters)")
	}

	return nil
}

// ValidateNickname проверяет псевдоним дарителя.
// Длина считается в рунах: псевдонимы бывают на CJK.
func ValidateNickname(nickname string) error {
	if nickname == "" {
		return fmt.Errorf("nickname cannot be empty")
	}

	if utf8.RuneCountInString(nickname) > MaxNicknameLen {
		return fmt.Errorf("nickname must not exceed %d characters", MaxNicknameLen)
	}

	return nil
}

// ValidateMessage проверяет текст сообщения к подарку.
// Пустое сообщение допустимо.
func ValidateMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxMessageLen {
		return fmt.Errorf("message must not exceed %d characters", MaxMessageLen)
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю администратора
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
