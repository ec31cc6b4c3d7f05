package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidConfig is returned when required settings are missing or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCredentials is returned when the service account JSON cannot be used.
	ErrInvalidCredentials = errors.New("invalid google credentials")
)

// ServiceAccount is the subset of a Google service-account key we rely on.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required"`
	PrivateKey  string `json:"private_key" validate:"required"`
}

// Validate checks the configuration and fills derived values such as the
// Firestore project id. Startup must abort when it returns an error.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(err))
	}

	if cfg.Store.Driver != StoreFirestore {
		return nil
	}

	account, err := ParseServiceAccount(cfg.Store.CredentialsJSON)
	if err != nil {
		return err
	}
	if err := v.Struct(account); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, describe(err))
	}
	if cfg.Store.ProjectID == "" {
		cfg.Store.ProjectID = account.ProjectID
	}

	return nil
}

// ParseServiceAccount decodes a service-account JSON document.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	var account ServiceAccount
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return &account, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}
