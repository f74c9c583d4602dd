package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// Reason classifies why a fetch failed so callers can produce an actionable
// message for each failure mode.
type Reason string

const (
	ReasonTimeout    Reason = "timeout"
	ReasonConnection Reason = "connection_failed"
	ReasonTLS        Reason = "tls_failed"
	ReasonStatus     Reason = "http_status"
)

// Error is the single failure type crossing the fetcher boundary. Transport
// exceptions never escape unwrapped.
type Error struct {
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonTimeout:
		return "request timed out"
	case ReasonTLS:
		return fmt.Sprintf("tls handshake failed: %v", e.Err)
	case ReasonStatus:
		return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
	default:
		return fmt.Sprintf("connection failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classifyTransportError maps a transport-level error onto a fetch Reason.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Reason: ReasonTimeout, Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Reason: ReasonTimeout, Err: err}
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var certInvalid x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalid) ||
		errors.As(err, &recordErr) {
		return &Error{Reason: ReasonTLS, Err: err}
	}

	return &Error{Reason: ReasonConnection, Err: err}
}
