package entity

import (
	"errors"
	"time"
)

type BannerLevel string

const (
	BannerSuccess BannerLevel = "success"
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
)

const SuccessMessage = "Query executed successfully!"

type Banner struct {
	Level   BannerLevel
	Message string
}

// Step is one tool invocation made by the agent while answering.
type Step struct {
	Iteration   int
	Tool        string
	Input       string
	Observation string
	IsError     bool
}

// Outcome is everything the page renders after "Run Query".
type Outcome struct {
	Banner   Banner
	Answer   string
	Steps    []Step
	Duration time.Duration
}

func (o Outcome) Succeeded() bool {
	return o.Banner.Level == BannerSuccess
}

// ValidationBanner maps a QueryRequest.Validate error to the banner shown
// in place of running the query. ok is false for any other error.
func ValidationBanner(err error) (banner Banner, ok bool) {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return Banner{Level: BannerWarning, Message: "Please provide an OpenAI API key to proceed."}, true
	case errors.Is(err, ErrMissingConnection):
		return Banner{Level: BannerError, Message: "Please provide all MySQL connection details."}, true
	case errors.Is(err, ErrEmptyQuery):
		return Banner{Level: BannerWarning, Message: "Please enter a query."}, true
	}
	return Banner{}, false
}

// ErrorBanner is the catch-all for anything that fails after validation.
func ErrorBanner(err error) Banner {
	return Banner{Level: BannerError, Message: "Error: " + err.Error()}
}
