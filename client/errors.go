package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies an API failure for the caller's retry/exit policy.
type ErrorKind int

const (
	// KindNotFound covers missing, private, or deleted videos, and videos
	// with comments disabled.
	KindNotFound ErrorKind = iota + 1
	// KindPermissionDenied covers bad credentials or a disabled API.
	KindPermissionDenied
	// KindQuotaExceeded means the daily budget is exhausted.
	KindQuotaExceeded
	// KindTransient covers network timeouts and 5xx responses; retried
	// internally with bounded backoff.
	KindTransient
	// KindFatal is everything else, surfaced immediately.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a classified API failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// kindOf extracts the classification from an error chain, KindFatal when
// the chain holds no *Error.
func kindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindFatal
}

// IsNotFound reports whether err is classified as a missing video.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsPermissionDenied reports whether err is a credentials/API problem.
func IsPermissionDenied(err error) bool { return kindOf(err) == KindPermissionDenied }

// IsQuotaExceeded reports whether err means the daily budget is spent.
func IsQuotaExceeded(err error) bool { return kindOf(err) == KindQuotaExceeded }

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool { return kindOf(err) == KindTransient }

// classifyError maps a raw API/transport error onto the taxonomy.
func classifyError(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 403 && hasReason(gerr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded"):
			return &Error{Kind: KindQuotaExceeded, Op: op, Err: err}
		case gerr.Code == 403 && hasReason(gerr, "commentsDisabled"):
			return &Error{Kind: KindNotFound, Op: op, Err: err}
		case gerr.Code == 403 || gerr.Code == 401:
			return &Error{Kind: KindPermissionDenied, Op: op, Err: err}
		case gerr.Code == 404:
			return &Error{Kind: KindNotFound, Op: op, Err: err}
		case gerr.Code >= 500:
			return &Error{Kind: KindTransient, Op: op, Err: err}
		default:
			return &Error{Kind: KindFatal, Op: op, Err: err}
		}
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: KindTransient, Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransient, Op: op, Err: err}
	}

	return &Error{Kind: KindFatal, Op: op, Err: err}
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	// Some error payloads only carry the reason in the message.
	for _, r := range reasons {
		if strings.Contains(gerr.Message, r) {
			return true
		}
	}
	return false
}
