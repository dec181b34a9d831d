package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents network/HTTP failures
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeExtraction represents missing markup or undecodable embedded data
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeNormalization represents payload fields with an unexpected shape
	ErrorTypeNormalization ErrorType = "normalization"
	// ErrorTypeSink represents failures writing to the output target
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// HarvestError represents a harvester-specific error
type HarvestError struct {
	Type    ErrorType
	URL     string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *HarvestError) Error() string {
	if e.URL != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *HarvestError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error must abort the whole run.
// Listing-level failures (transport, extraction, normalization) are
// isolated per task; a broken sink or configuration is not recoverable.
func (e *HarvestError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeSink:
		return true
	case ErrorTypeConfiguration:
		return true
	default:
		return false
	}
}

// New creates a new HarvestError
func New(errType ErrorType, url, message string, err error) *HarvestError {
	return &HarvestError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(url, message string, err error) *HarvestError {
	return New(ErrorTypeTransport, url, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(url, message string, err error) *HarvestError {
	return New(ErrorTypeExtraction, url, message, err)
}

// NewNormalization creates a new normalization error for a payload field
func NewNormalization(field, message string) *HarvestError {
	return New(ErrorTypeNormalization, "", fmt.Sprintf("field %q: %s", field, message), nil)
}

// NewSink creates a new sink error
func NewSink(message string, err error) *HarvestError {
	return New(ErrorTypeSink, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *HarvestError {
	return New(ErrorTypeConfiguration, "", message, err)
}
