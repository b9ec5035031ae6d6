package validation

import (
	"fmt"

	"github.com/duccv/user-auth-service/internal/model"
)

const (
	MinNameLength     = 3
	MinPasswordLength = 6
	// bcrypt ignores input past 72 bytes, so longer secrets are rejected up front
	MaxPasswordBytes = 72
)

var (
	msgName          = fmt.Sprintf("name must be at least %d characters", MinNameLength)
	msgEmail         = "email is not valid"
	msgPassword      = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	msgPasswordBytes = fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes)
)

func passwordRules() []Rule {
	return []Rule{MinLength(MinPasswordLength, msgPassword), MaxBytes(MaxPasswordBytes, msgPasswordBytes)}
}

var RegisterSchema = Schema[model.RegisterRequest]{
	{Name: "name", Value: func(r model.RegisterRequest) string { return r.Name }, Rules: []Rule{MinLength(MinNameLength, msgName)}},
	{Name: "email", Value: func(r model.RegisterRequest) string { return r.Email }, Rules: []Rule{Email(msgEmail)}},
	{Name: "password", Value: func(r model.RegisterRequest) string { return r.Password }, Rules: passwordRules()},
}

var LoginSchema = Schema[model.LoginRequest]{
	{Name: "email", Value: func(r model.LoginRequest) string { return r.Email }, Rules: []Rule{Email(msgEmail)}},
	{Name: "password", Value: func(r model.LoginRequest) string { return r.Password }, Rules: passwordRules()},
}

var UserStoreSchema = Schema[model.UserStoreRequest]{
	{Name: "name", Value: func(r model.UserStoreRequest) string { return r.Name }, Rules: []Rule{MinLength(MinNameLength, msgName)}},
	{Name: "email", Value: func(r model.UserStoreRequest) string { return r.Email }, Rules: []Rule{Email(msgEmail)}},
	{Name: "password", Value: func(r model.UserStoreRequest) string { return r.Password }, Rules: passwordRules()},
}

var UserUpdateSchema = Schema[model.UserUpdateRequest]{
	{Name: "name", Value: func(r model.UserUpdateRequest) string { return r.Name }, Rules: []Rule{MinLength(MinNameLength, msgName)}},
	{Name: "email", Value: func(r model.UserUpdateRequest) string { return r.Email }, Rules: []Rule{Email(msgEmail)}},
	{
		Name: "password",
		Value: func(r model.UserUpdateRequest) string {
			if r.Password == nil {
				return ""
			}
			return *r.Password
		},
		Optional: true,
		Rules:    passwordRules(),
	},
}
