package form

import "errors"

// User-facing messages
const (
	MsgFillAllFields     = "Please fill in all fields"
	MsgInvalidNumbers    = "Please enter valid numbers"
	MsgPredictionFailed  = "An error occurred while predicting"
	MsgNetworkError      = "Network error. Please check if the server is running."
	MsgPredictionSuccess = "Prediction generated successfully!"
)

// ErrMalformedResponse is the cause of a TransportError when the service
// answered success without a prediction.
var ErrMalformedResponse = errors.New("response reported success without a prediction")

// ValidationError means the form was incomplete or not numeric. No request
// was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ServerReportedError means the service answered with success=false
type ServerReportedError struct {
	Message string
}

func (e *ServerReportedError) Error() string { return e.Message }

// TransportError means the request could not be completed or the response
// could not be understood. Cause is kept for logs and never shown to users.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause == nil {
		return "prediction request failed"
	}
	return "prediction request failed: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// UserMessage returns the notice text for any pipeline error
func UserMessage(err error) string {
	var (
		verr *ValidationError
		serr *ServerReportedError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &serr):
		return serr.Message
	default:
		return MsgNetworkError
	}
}
