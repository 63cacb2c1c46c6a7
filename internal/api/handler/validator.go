package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/gin-social/internal/identity"
)

// RegisterValidators 注册自定义校验规则：handle
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return identity.IsValidHandle(fl.Field().String())
	})
}

type userIDURI struct {
	UserID string `uri:"user_id" binding:"required,uuid"`
}

type usernameURI struct {
	Username string `uri:"username" binding:"required,handle"`
}
