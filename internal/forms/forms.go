// Package forms holds the client-side validation rules for the login,
// register and post forms. Validators are pure: they take the current field
// values and return the per-field messages, empty when the form is valid.
package forms

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names shared with the views.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldTitle           = "title"
	FieldContent         = "content"
	FieldImage           = "image"
)

const msgRequired = "Required"

var (
	emailPattern   = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Errors maps a field name to its first failing rule's message.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e[field]
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoginValues are the login form fields.
type LoginValues struct {
	Username string
	Password string
}

// ValidateLogin checks the login form.
func ValidateLogin(v LoginValues) Errors {
	errs := Errors{}
	if v.Username == "" {
		errs[FieldUsername] = msgRequired
	}
	switch {
	case v.Password == "":
		errs[FieldPassword] = msgRequired
	case length(v.Password) < 8:
		errs[FieldPassword] = "Password must be at least 8 characters"
	}
	return errs
}

// RegisterValues are the register form fields. Phone and Address are
// validated but never sent to the server.
type RegisterValues struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
}

// ValidateRegister checks the register form.
func ValidateRegister(v RegisterValues) Errors {
	errs := Errors{}

	switch {
	case v.Username == "":
		errs[FieldUsername] = msgRequired
	case length(v.Username) < 3:
		errs[FieldUsername] = "Username must be at least 3 characters"
	}

	switch {
	case v.Email == "":
		errs[FieldEmail] = msgRequired
	case !emailPattern.MatchString(v.Email):
		errs[FieldEmail] = "Invalid email address"
	}

	if msg := validatePassword(v.Password); msg != "" {
		errs[FieldPassword] = msg
	}

	if v.Password != v.ConfirmPassword {
		errs[FieldConfirmPassword] = "Passwords must match"
	}

	switch {
	case v.Phone == "":
		errs[FieldPhone] = msgRequired
	case !phonePattern.MatchString(v.Phone):
		errs[FieldPhone] = "Invalid phone number (10-15 digits)"
	}

	switch {
	case v.Address == "":
		errs[FieldAddress] = msgRequired
	case length(v.Address) < 10:
		errs[FieldAddress] = "Address too short"
	}

	return errs
}

func validatePassword(pw string) string {
	switch {
	case pw == "":
		return msgRequired
	case length(pw) < 8:
		return "Password must be at least 8 characters"
	case !upperPattern.MatchString(pw):
		return "Must contain at least one uppercase letter"
	case !lowerPattern.MatchString(pw):
		return "Must contain at least one lowercase letter"
	case !digitPattern.MatchString(pw):
		return "Must contain at least one number"
	case !specialPattern.MatchString(pw):
		return "Must contain at least one special character"
	}
	return ""
}

// Strength is a password strength score with its display label.
type Strength struct {
	Score int
	Label string
}

var strengthLabels = [...]string{"", "Very Weak", "Weak", "Medium", "Strong", "Very Strong"}

// PasswordStrength scores pw from 0 to 5, one point per satisfied rule.
func PasswordStrength(pw string) Strength {
	score := 0
	for _, ok := range []bool{
		length(pw) >= 8,
		upperPattern.MatchString(pw),
		lowerPattern.MatchString(pw),
		digitPattern.MatchString(pw),
		specialPattern.MatchString(pw),
	} {
		if ok {
			score++
		}
	}
	return Strength{Score: score, Label: strengthLabels[score]}
}

// PostValues are the editor fields. ImagePath is a local file path.
type PostValues struct {
	Title     string
	Content   string
	ImagePath string
}

// ValidatePost checks the editor. An image is only required when creating.
func ValidatePost(v PostValues, editing bool) Errors {
	errs := Errors{}
	if strings.TrimSpace(v.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}
	if strings.TrimSpace(v.Content) == "" {
		errs[FieldContent] = "Content is required"
	}
	if !editing && strings.TrimSpace(v.ImagePath) == "" {
		errs[FieldImage] = "Image is required"
	}
	return errs
}

func length(s string) int { return utf8.RuneCountInString(s) }
