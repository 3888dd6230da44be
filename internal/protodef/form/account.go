package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LoginForm 管理员/面试官登录。
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f *LoginForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&f.Password, validation.Required),
	)
}
