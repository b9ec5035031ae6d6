package validation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/internal/apperror"
	"github.com/duccv/user-auth-service/internal/constant"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/pkg/logger"
)

var validate *validator.Validate = validator.New()

// Rule is one predicate and the message reported when it does not hold.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field declares the rules for one input field. Optional fields are only
// checked when their value is non-empty.
type Field[T any] struct {
	Name     string
	Value    func(T) string
	Optional bool
	Rules    []Rule
}

// Schema is the rule table of a request type. Field order is the order
// violations are reported in.
type Schema[T any] []Field[T]

// Validate evaluates every rule of every field and never stops early.
func (s Schema[T]) Validate(input T) ErrorSet {
	var errs ErrorSet
	for _, f := range s {
		v := f.Value(input)
		if f.Optional && v == "" {
			continue
		}
		for _, r := range f.Rules {
			if !r.Check(v) {
				errs.Add(f.Name, r.Message)
			}
		}
	}
	return errs
}

// ErrorSet maps field names to their violation messages, in insertion order.
// The zero value is an empty set.
type ErrorSet struct {
	fields   []string
	messages map[string][]string
}

func (e *ErrorSet) Add(field, message string) {
	if e.messages == nil {
		e.messages = make(map[string][]string)
	}
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], message)
}

func (e ErrorSet) Empty() bool {
	return len(e.fields) == 0
}

func (e ErrorSet) Fields() []string {
	return append([]string(nil), e.fields...)
}

func (e ErrorSet) Messages(field string) []string {
	return append([]string(nil), e.messages[field]...)
}

// MarshalJSON writes the set as a JSON object whose keys keep field order.
func (e ErrorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(e.messages[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func Required(message string) Rule {
	return Rule{
		Check:   func(v string) bool { return strings.TrimSpace(v) != "" },
		Message: message,
	}
}

// MinLength counts characters, not bytes.
func MinLength(n int, message string) Rule {
	return Rule{
		Check:   func(v string) bool { return utf8.RuneCountInString(v) >= n },
		Message: message,
	}
}

func MaxBytes(n int, message string) Rule {
	return Rule{
		Check:   func(v string) bool { return len(v) <= n },
		Message: message,
	}
}

func Email(message string) Rule {
	return Rule{
		Check:   func(v string) bool { return validate.Var(v, "required,email") == nil },
		Message: message,
	}
}

// ValidateBody decodes the JSON body into B and runs schema against it.
// On success the body is available through Body[B].
func ValidateBody[B any](schema Schema[B]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body B
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.FromContext(c.Request.Context()).Debug("Undecodable request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, constant.INVALID_REQUEST)
			return
		}

		if errs := schema.Validate(body); !errs.Empty() {
			verr := apperror.Validation(constant.MsgValidationFailed)
			c.AbortWithStatusJSON(verr.Status(), response.ValidationFailed(verr.Message, errs))
			return
		}

		c.Set(constant.ValidatedBodyKey, body)
		c.Next()
	}
}

// ValidateParams binds URI params into P using its `uri` and `binding` tags.
func ValidateParams[P any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params P
		if err := c.ShouldBindUri(&params); err != nil {
			logger.FromContext(c.Request.Context()).Debug("Invalid path params", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, constant.INVALID_REQUEST)
			return
		}

		c.Set(constant.ValidatedParamsKey, params)
		c.Next()
	}
}

func Body[B any](c *gin.Context) B {
	v, _ := c.Get(constant.ValidatedBodyKey)
	b, _ := v.(B)
	return b
}

func Params[P any](c *gin.Context) P {
	v, _ := c.Get(constant.ValidatedParamsKey)
	p, _ := v.(P)
	return p
}
