package entity

import (
	"errors"
	"strings"
)

var (
	ErrMissingAPIKey      = errors.New("missing api key")
	ErrMissingConnection  = errors.New("missing connection details")
	ErrEmptyQuery         = errors.New("empty query")
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)

// Credentials are the values collected from the configuration sidebar.
// Nothing outlives a single request except the cached database handle.
type Credentials struct {
	Host     string
	User     string
	Password string
	Database string
	APIKey   string
}

// Missing returns the names of the empty connection fields, in form order.
// The API key is checked separately by QueryRequest.Validate.
func (c Credentials) Missing() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"host", c.Host},
		{"user", c.User},
		{"password", c.Password},
		{"database", c.Database},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type QueryRequest struct {
	Credentials Credentials
	Query       string
}

// Validate runs the guards in the order the page shows them: API key,
// then connection details, then the query text.
func (r QueryRequest) Validate() error {
	if strings.TrimSpace(r.Credentials.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if len(r.Credentials.Missing()) > 0 {
		return ErrMissingConnection
	}
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
