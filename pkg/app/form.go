package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidError 单个字段校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 将校验错误拼接为单个字符串
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// MapsToString 将校验错误按字段输出为 key:message 形式
func (v ValidErrors) MapsToString() string {
	var parts []string
	for _, err := range v {
		parts = append(parts, err.Key+":"+err.Message)
	}
	return strings.Join(parts, ",")
}

// BindAndValid binds request parameters and validates them, translating
// validator messages with the translator stored on the context
// BindAndValid 绑定请求参数并校验，使用上下文中的翻译器翻译校验消息
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err != nil {
		verrs, isValidatorErr := err.(val.ValidationErrors)
		if !isValidatorErr {
			errs = append(errs, &ValidError{
				Key:     "request",
				Message: err.Error(),
			})
			return false, errs
		}

		trans, hasTrans := c.Value("trans").(ut.Translator)
		for _, fe := range verrs {
			message := fe.Error()
			if hasTrans {
				message = fe.Translate(trans)
			}
			errs = append(errs, &ValidError{
				Key:     fe.Field(),
				Message: message,
			})
		}

		return false, errs
	}

	return true, nil
}
