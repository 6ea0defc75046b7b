package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents response parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeSink represents sink-related errors
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlError represents a crawl-specific error
type CrawlError struct {
	Type     ErrorType
	Category string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Category, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *CrawlError) IsRetryable() bool {
	return e.Type == ErrorTypeNetwork
}

// New creates a new CrawlError
func New(errType ErrorType, category, message string, err error) *CrawlError {
	return &CrawlError{
		Type:     errType,
		Category: category,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(category, message string, err error) *CrawlError {
	return New(ErrorTypeNetwork, category, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(category, message string, err error) *CrawlError {
	return New(ErrorTypeParsing, category, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(category string, duration time.Duration) *CrawlError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, category, message, nil)
}

// NewCache creates a new cache error
func NewCache(category, message string, err error) *CrawlError {
	return New(ErrorTypeCache, category, message, err)
}

// NewSink creates a new sink error
func NewSink(category, message string, err error) *CrawlError {
	return New(ErrorTypeSink, category, message, err)
}

// NewValidation creates a new validation error
func NewValidation(category, message string) *CrawlError {
	return New(ErrorTypeValidation, category, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}
