package providers

import "strconv"

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return "server error " + strconv.Itoa(e.statusCode) + ": " + e.body
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	_, ok := err.(*authError)
	return ok
}

// IsRateLimitError checks if an error is a rate-limit error.
func IsRateLimitError(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}
