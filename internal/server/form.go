package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jpalmerr/chatcast/internal/hub"
)

// maxLabelLength is the maximum length, in characters, of room and username.
const maxLabelLength = 30

// messageForm is the form submission accepted by the publish endpoint.
type messageForm struct {
	Room     string `form:"room" validate:"max=30"`
	Username string `form:"username" validate:"max=30"`
	Message  string `form:"message"`
}

// formFields lists the fields that must be present in every submission.
// Empty values are allowed.
var formFields = []string{"room", "username", "message"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report form field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// parseMessageForm decodes and validates a publish submission.
//
// The returned error is safe to show to the submitter.
func parseMessageForm(r *http.Request) (hub.Message, error) {
	if err := r.ParseForm(); err != nil {
		return hub.Message{}, fmt.Errorf("invalid form body: %w", err)
	}

	for _, field := range formFields {
		if !r.PostForm.Has(field) {
			return hub.Message{}, fmt.Errorf("missing form field %q", field)
		}
	}

	form := messageForm{
		Room:     r.PostForm.Get("room"),
		Username: r.PostForm.Get("username"),
		Message:  r.PostForm.Get("message"),
	}
	if err := validate.Struct(form); err != nil {
		return hub.Message{}, describeValidation(err)
	}

	return hub.Message{
		Room:     form.Room,
		Username: form.Username,
		Message:  form.Message,
	}, nil
}

// describeValidation turns validator errors into a single readable error.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
