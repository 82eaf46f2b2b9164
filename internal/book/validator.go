package book

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	msgTitleRequired     = "Title is required."
	msgISBNRequired      = "ISBN is required."
	msgISBNFormat        = "ISBN format is invalid."
	msgAuthorRequired    = "Author is required."
	msgPublisherRequired = "Publisher is required."
	msgYearRange         = "Year of publishing must be between 1 and 2100."
	msgPageCount         = "Page count must be greater than 0."
	msgPriceNegative     = "Price cannot be negative."
	msgGenreRequired     = "Genre is required."
)

// ValidationError reports the first rule a book failed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// bookRules declares the checks in the order they are reported.
// go-playground/validator walks fields in declaration order and stops
// at the first failing tag of each field.
type bookRules struct {
	Title            string  `validate:"notblank"`
	ISBN             string  `validate:"notblank,isbn13"`
	Author           string  `validate:"notblank"`
	Publisher        string  `validate:"notblank"`
	YearOfPublishing int     `validate:"min=1,max=2100"`
	PageCount        int     `validate:"gt=0"`
	Price            float64 `validate:"gte=0"`
	Genre            string  `validate:"notblank"`
}

var ruleMessages = map[string]string{
	"Title.notblank":       msgTitleRequired,
	"ISBN.notblank":        msgISBNRequired,
	"ISBN.isbn13":          msgISBNFormat,
	"Author.notblank":      msgAuthorRequired,
	"Publisher.notblank":   msgPublisherRequired,
	"YearOfPublishing.min": msgYearRange,
	"YearOfPublishing.max": msgYearRange,
	"PageCount.gt":         msgPageCount,
	"Price.gte":            msgPriceNegative,
	"Genre.notblank":       msgGenreRequired,
}

// Validator checks candidate books before they are written. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the notblank and isbn13 rules registered.
func NewValidator() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("isbn13", validateISBN13); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func validateISBN13(fl validator.FieldLevel) bool {
	_, err := NormalizeISBN(fl.Field().String())
	return err == nil
}

// Validate returns nil when b is acceptable, otherwise a *ValidationError
// carrying the message of the first failed rule.
func (v *Validator) Validate(b Book) error {
	err := v.validate.Struct(bookRules{
		Title:            b.Title,
		ISBN:             b.ISBN,
		Author:           b.Author,
		Publisher:        b.Publisher,
		YearOfPublishing: b.YearOfPublishing,
		PageCount:        b.PageCount,
		Price:            b.Price,
		Genre:            b.Genre,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	if msg, ok := ruleMessages[first.StructField()+"."+first.Tag()]; ok {
		return &ValidationError{Message: msg}
	}
	return &ValidationError{Message: first.Error()}
}

// IsBlank reports whether s is empty or consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
