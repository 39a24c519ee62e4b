package services

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic("failed to register validator translations: " + err.Error())
	}

	if err := validate.RegisterValidation("whole", isWholeNumber); err != nil {
		panic("failed to register whole validation: " + err.Error())
	}
	_ = validate.RegisterTranslation("whole", trans, func(ut ut.Translator) error {
		return ut.Add("whole", "{0} must be an integer", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("whole", fe.Field())
		return t
	})
}

func isWholeNumber(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		v := field.Float()
		return !math.IsInf(v, 0) && v == math.Trunc(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// validateStruct checks v against its struct tags and returns every violated
// field at once as a *ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(trans),
		})
	}
	return &ValidationError{Fields: fields}
}

// NewFieldError builds a single-field validation error.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []models.FieldError{{Field: field, Message: message}}}
}

// ValidateGenerationRequest trims and checks an AI generation request.
func ValidateGenerationRequest(req *models.GenerateFlashcardsRequest) error {
	req.GroupID = strings.TrimSpace(req.GroupID)
	req.Prompt = strings.TrimSpace(req.Prompt)
	return validateStruct(req)
}

func ValidateCreateFlashcard(req *models.CreateFlashcardRequest) error {
	req.Front = strings.TrimSpace(req.Front)
	req.Back = strings.TrimSpace(req.Back)
	req.GroupID = strings.TrimSpace(req.GroupID)
	return validateStruct(req)
}

func ValidateUpdateFlashcard(req *models.UpdateFlashcardRequest) error {
	req.Front = strings.TrimSpace(req.Front)
	req.Back = strings.TrimSpace(req.Back)
	return validateStruct(req)
}

func ValidateFlashcardsListQuery(q *models.FlashcardsListQuery) error {
	if q.Sort == "" {
		q.Sort = "updated_date"
	}
	if q.Order == "" {
		q.Order = "desc"
	}
	return validateStruct(q)
}

func ValidateCreateGroup(req *models.CreateGroupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	return validateStruct(req)
}

func ValidateUpdateGroup(req *models.UpdateGroupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.LastUsedPrompt != nil {
		trimmed := strings.TrimSpace(*req.LastUsedPrompt)
		req.LastUsedPrompt = &trimmed
	}
	return validateStruct(req)
}

func ValidateGroupsListQuery(q *models.GroupsListQuery) error {
	if q.Sort == "" {
		q.Sort = "updated_date"
	}
	if q.Order == "" {
		q.Order = "desc"
	}
	return validateStruct(q)
}

func ValidateRegister(req *models.RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return validateStruct(req)
}

func ValidateLogin(req *models.LoginRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return validateStruct(req)
}

func ValidateRefresh(req *models.RefreshRequest) error {
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	return validateStruct(req)
}
