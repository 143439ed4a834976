package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
)

const dueDateLayout = "2006-01-02"

// FieldErrors collects per-field validation messages for 422 responses.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// RegisterTagNames makes gin's validator report json tag names instead of
// Go field names, so binding errors line up with request payload keys.
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FromBindingError translates validator errors into field messages. Any
// other binding failure (malformed JSON, wrong types) maps to a single
// payload-level message.
func FromBindingError(err error) FieldErrors {
	fields := FieldErrors{}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fields.Add("payload", "The request body is malformed.")
		return fields
	}

	for _, fe := range validationErrs {
		fields.Add(fe.Field(), ruleMessage(fe))
	}
	return fields
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Must not be longer than " + fe.Param() + " characters."
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Must contain at least " + fe.Param() + " item(s)."
		}
		return "Must be at least " + fe.Param() + " characters."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "datetime":
		return "Must be a date in the format " + fe.Param() + "."
	case "uuid":
		return "Must be a valid task id."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	}
	return "Invalid value."
}

// BuildCreateTaskInput validates the create payload beyond what binding
// tags cover and assembles the domain input. The due date must be today
// or later.
func BuildCreateTaskInput(req dto.CreateTaskRequest, now time.Time) (domain.CreateTaskInput, FieldErrors) {
	fields := FieldErrors{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		fields.Add("title", "This field is required.")
	}

	in := domain.CreateTaskInput{
		Title:       title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !status.Valid() {
			fields.Add("status", "Must be a valid status.")
		}
		in.Status = status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !priority.Valid() {
			fields.Add("priority", "Must be a valid priority.")
		}
		in.Priority = priority
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			fields.Add("due_date", "Must be a date in the format "+dueDateLayout+".")
		} else if dueDate.Before(startOfDay(now)) {
			fields.Add("due_date", "Must be today or a future date.")
		} else {
			in.DueDate = &dueDate
		}
	}

	if !fields.Empty() {
		return domain.CreateTaskInput{}, fields
	}
	return in, nil
}

// BuildUpdateTaskInput assembles a partial update. The raw message map
// distinguishes absent fields from ones explicitly set to null, so
// clearing description, assignee or due date stays expressible.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, FieldErrors) {
	fields := FieldErrors{}
	in := domain.UpdateTaskInput{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fields.Add("title", "This field is required.")
		}
		in.Title = &title
	}

	if hasJSONField(raw, "description") {
		in.DescriptionSet = true
		in.Description = req.Description
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !status.Valid() {
			fields.Add("status", "Must be a valid status.")
		}
		in.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !priority.Valid() {
			fields.Add("priority", "Must be a valid priority.")
		}
		in.Priority = &priority
	}

	if hasJSONField(raw, "assigned_to") {
		in.AssignedToSet = true
		in.AssignedTo = req.AssignedTo
		if !isJSONNull(raw["assigned_to"]) && req.AssignedTo == nil {
			fields.Add("assigned_to", "Must be a valid user id.")
		}
	}

	if hasJSONField(raw, "due_date") {
		in.DueDateSet = true
		if req.DueDate != nil {
			dueDate, err := time.Parse(dueDateLayout, *req.DueDate)
			if err != nil {
				fields.Add("due_date", "Must be a date in the format "+dueDateLayout+".")
			} else {
				in.DueDate = &dueDate
			}
		} else if !isJSONNull(raw["due_date"]) {
			fields.Add("due_date", "Must be a date in the format "+dueDateLayout+".")
		}
	}

	if !fields.Empty() {
		return domain.UpdateTaskInput{}, fields
	}
	return in, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
