package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/llmhomework/portal/core"
)

var (
	userTypeTag  = "usertype"
	userTypeText = "invalid user type"

	// password policy (checked before the form is ever sent upstream)
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to username or email"

	pwdMismatchTag  = "pwdmismatch"
	pwdMismatchText = "passwords do not match"
)

// Login is the login form payload.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register is the legacy single-form registration payload.
type Register struct {
	Username        string `json:"username" validate:"required,alphanum_,max=32"`
	Email           string `json:"email" validate:"required,email,max=128"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	UserType        string `json:"user_type" validate:"omitempty,usertype"`
}

// EmailVerification starts the mail-verified signup flow.
type EmailVerification struct {
	Email string `json:"email" validate:"required,email,max=128"`
}

// CodeVerification confirms a mailed verification code.
type CodeVerification struct {
	VCode string `json:"vCode" validate:"required"`
}

// CodeRegister completes a signup under a confirmed verification code; the
// email is the one the code was issued for, so the form does not carry it.
type CodeRegister struct {
	VCode    string `json:"vCode" validate:"required"`
	Username string `json:"username" validate:"required,alphanum_,max=32"`
	Password string `json:"password" validate:"required"`
}

// PasswordChange rotates the logged in user's password.
type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (l *Login) Clean() {
	l.Email = core.CleanString(l.Email, true)
}

func (r *Register) Clean() {
	r.Username = core.CleanString(r.Username, true)
	r.Email = core.CleanString(r.Email, true)
	if r.UserType == "" {
		r.UserType = TypeStudent
	}
}

func (ev *EmailVerification) Clean() {
	ev.Email = core.CleanString(ev.Email, true)
}

func (cv *CodeVerification) Clean() {
	cv.VCode = core.CleanString(cv.VCode)
}

func (cr *CodeRegister) Clean() {
	cr.VCode = core.CleanString(cr.VCode)
	cr.Username = core.CleanString(cr.Username, true)
}

// InitValidators registers user form validations on the given validator instance.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(userTypeTag, userTypeValidation)
	core.RegisterCustomTranslation(validate, translator, userTypeTag, userTypeText)

	validate.RegisterStructValidation(registerStructValidation, Register{})
	validate.RegisterStructValidation(codeRegisterStructValidation, CodeRegister{})
	validate.RegisterStructValidation(passwordChangeStructValidation, PasswordChange{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdMismatchTag, pwdMismatchText)
}

// userTypeValidation checks that the provided user type is one of AllTypes.
func userTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range AllTypes {
		if val == t {
			return true
		}
	}
	return false
}

// registerStructValidation does struct level validation on the Register payload.
func registerStructValidation(sl validator.StructLevel) {
	reg, ok := sl.Current().Interface().(Register)
	if !ok {
		return
	}
	if reg.ConfirmPassword != "" && reg.Password != reg.ConfirmPassword {
		sl.ReportError(reg.ConfirmPassword, "confirm_password", "ConfirmPassword", pwdMismatchTag, "")
	}
	validatePassword(sl, reg.Password, "password", "Password", reg.Username, reg.Email)
}

// codeRegisterStructValidation applies the password policy to the
// mail-verified signup form.
func codeRegisterStructValidation(sl validator.StructLevel) {
	reg, ok := sl.Current().Interface().(CodeRegister)
	if !ok {
		return
	}
	validatePassword(sl, reg.Password, "password", "Password", reg.Username)
}

// passwordChangeStructValidation applies the password policy to the
// replacement password.
func passwordChangeStructValidation(sl validator.StructLevel) {
	chg, ok := sl.Current().Interface().(PasswordChange)
	if !ok {
		return
	}
	validatePassword(sl, chg.NewPassword, "new_password", "NewPassword")
}

func validatePassword(sl validator.StructLevel, pwd, field, structField string, usrAttrs ...string) {
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, field, structField, pwdMinLenTag, "")
	}
	if strings.IndexFunc(pwd, unicode.IsSpace) >= 0 {
		sl.ReportError(pwd, field, structField, pwdNoSpaceTag, "")
	}
	if isAllNumeric(pwd) {
		sl.ReportError(pwd, field, structField, pwdNotAllNumTag, "")
	}

	// reject passwords too similar to the username/email
	pass := strings.ToLower(pwd)
	for _, attr := range usrAttrs {
		if attr == "" {
			continue
		}
		attr = strings.ToLower(attr)
		m := difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, ""))
		if m.QuickRatio() >= pwdMaxSim {
			sl.ReportError(pwd, field, structField, pwdAttrSimTag, "")
			return
		}
	}
}

func isAllNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
