// Package validate выполняет клиентские проверки форм до отправки запроса.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

const minPasswordLength = 6

// Ошибки валидации. Тексты показываются пользователю как есть.
var (
	ErrUsernameRequired = errors.New("введите имя пользователя")
	ErrPasswordRequired = errors.New("введите пароль")
	ErrEmailInvalid     = errors.New("введите корректный адрес электронной почты")
	ErrPasswordWeak     = errors.New(
		"пароль должен быть не короче 6 символов и содержать хотя бы одну букву и одну цифру")
	ErrTitleRequired   = errors.New("введите заголовок поста")
	ErrContentRequired = errors.New("текст не может быть пустым")
	ErrNameRequired    = errors.New("введите название")
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d]+$`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

// Email проверяет формат адреса.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// Password проверяет сложность пароля: латинские буквы и цифры,
// не короче minPasswordLength, хотя бы одна буква и одна цифра.
func Password(password string) error {
	if len(password) < minPasswordLength ||
		!passwordCharset.MatchString(password) ||
		!hasLetter.MatchString(password) ||
		!hasDigit.MatchString(password) {
		return ErrPasswordWeak
	}
	return nil
}

// Login проверяет форму входа.
func Login(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Register проверяет форму регистрации.
func Register(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Profile проверяет форму настроек. Пустой пароль означает "не менять".
func Profile(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if err := Email(email); err != nil {
		return err
	}
	if password == "" {
		return nil
	}
	return Password(password)
}

// Post проверяет форму поста.
func Post(title, desc string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(desc) == "" {
		return ErrContentRequired
	}
	return nil
}

// Comment проверяет текст комментария.
func Comment(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentRequired
	}
	return nil
}

// Category проверяет название категории.
func Category(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}
