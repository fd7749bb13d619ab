package review

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minBodyLen = 20
	maxBodyLen = 2000
	maxItems   = 12
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Ratings move in half-star steps: 0.5, 1.0, ..., 5.0.
	Validate.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Float()
		if rating < 0.5 || rating > 5.0 {
			return false
		}
		return int(math.Round(rating*100))%50 == 0
	})
}

// ValidationError carries the message shown to the invoker. Exactly one check
// fails at a time; the first failing one wins.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

type CreateInput struct {
	RestaurantName string
	Rating         float64
	ItemsRaw       string
	Body           string
	District       string
}

// EditInput holds the fields supplied to an edit; nil means "leave as is".
type EditInput struct {
	ID             string
	RestaurantName *string
	Rating         *float64
	ItemsRaw       *string
	Body           *string
	District       *string
	URL            *string
	MenuLink       *string
}

// ParseItems splits a comma-separated item list, trimming entries and dropping
// blank segments.
func ParseItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ValidateCreate checks every field of a new review and returns the parsed
// item list on success.
func ValidateCreate(in CreateInput) ([]string, error) {
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	if err := Validate.Var(in.Rating, "halfstep"); err != nil {
		return nil, invalid("The rating must be a multiple of 0.5 between 0.5 and 5.0.")
	}

	items := ParseItems(in.ItemsRaw)
	if len(items) == 0 {
		return nil, invalid("You must list at least one dish or drink in the items field.")
	}
	if len(items) > maxItems {
		return nil, invalid("You can list at most 12 dishes or drinks.")
	}

	if strings.TrimSpace(in.RestaurantName) == "" {
		return nil, invalid("The restaurant name cannot be empty.")
	}
	if strings.TrimSpace(in.District) == "" {
		return nil, invalid("The district cannot be empty.")
	}

	return items, nil
}

// ValidateEdit checks the id and whichever fields were supplied. The returned
// slice is the parsed item list, nil when no items were supplied.
func ValidateEdit(in EditInput) ([]string, error) {
	if err := Validate.Var(in.ID, "len=24,hexadecimal"); err != nil {
		return nil, invalid("The supplied ID does not have a valid format.")
	}

	if in.Rating != nil {
		if err := Validate.Var(*in.Rating, "halfstep"); err != nil {
			return nil, invalid("The rating must be a multiple of 0.5 between 0.5 and 5.0.")
		}
	}

	var items []string
	if in.ItemsRaw != nil {
		items = ParseItems(*in.ItemsRaw)
		if len(items) == 0 {
			return nil, invalid("If you supply items, you must list at least one dish or drink.")
		}
		if len(items) > maxItems {
			return nil, invalid("You can list at most 12 dishes or drinks.")
		}
	}

	if in.Body != nil {
		if err := validateBody(*in.Body); err != nil {
			return nil, err
		}
	}

	if in.RestaurantName != nil && strings.TrimSpace(*in.RestaurantName) == "" {
		return nil, invalid("The restaurant name cannot be empty.")
	}
	if in.District != nil && strings.TrimSpace(*in.District) == "" {
		return nil, invalid("The district cannot be empty.")
	}

	if in.URL != nil && !isHTTPURL(*in.URL) {
		return nil, invalid("The URL must start with http:// or https://.")
	}
	if in.MenuLink != nil && !isHTTPURL(*in.MenuLink) {
		return nil, invalid("The menu link must start with http:// or https://.")
	}

	return items, nil
}

// validateBody bounds the review text in characters, not bytes, so accented
// text sits on the same [20,2000] boundary as plain ASCII.
func validateBody(body string) error {
	length := utf8.RuneCountInString(body)
	if length < minBodyLen {
		return invalid("The review text must be at least 20 characters long.")
	}
	if length > maxBodyLen {
		return invalid("The review text cannot exceed 2000 characters.")
	}
	return nil
}

func isHTTPURL(s string) bool {
	return (strings.HasPrefix(s, "http://") && len(s) > len("http://")) ||
		(strings.HasPrefix(s, "https://") && len(s) > len("https://"))
}
