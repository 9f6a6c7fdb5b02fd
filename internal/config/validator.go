package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers Atelier-specific validation rules.
// Must be called before validating Config.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return fmt.Errorf("failed to register duration validator: %w", err)
	}
	return nil
}

// validateDuration accepts any positive time.ParseDuration string.
func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// Validate validates the Config using struct tags and cross-field rules.
// Returns an error with actionable messages on failure.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	// The token secret may only be omitted in dev mode, where an ephemeral
	// secret is generated at startup.
	if c.Auth.TokenSecret == "" && !c.DevMode {
		return errors.New("auth.token_secret is required (set ATELIER_AUTH_TOKEN_SECRET or run with --dev)")
	}

	// In-memory storage is a dev-mode convenience, never a production setup.
	if c.Storage.Path == "" && !c.DevMode {
		return errors.New("storage.path is required outside dev mode")
	}

	return nil
}

// formatValidationErrors converts validator errors into actionable messages.
func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Namespace())
		field = strings.TrimPrefix(field, "config.")
		switch fe.Tag() {
		case "hostname_port":
			msgs = append(msgs, fmt.Sprintf("%s: must be host:port (got %q)", field, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s] (got %q)", field, fe.Param(), fe.Value()))
		case "duration":
			msgs = append(msgs, fmt.Sprintf("%s: must be a positive duration like \"12h\" (got %q)", field, fe.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(msgs, "\n  - "))
}
