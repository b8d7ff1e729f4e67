package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"
	ConfigurationError  failure.ErrorCode = "ConfigurationError"

	// MalformedLedger marks a ledger source that cannot be decoded at all.
	// The run aborts before any fetch happens.
	MalformedLedger failure.ErrorCode = "MalformedLedger"

	InvalidProductLink failure.ErrorCode = "InvalidProductLink"
	FetchFailed        failure.ErrorCode = "FetchFailed"
	NotificationFailed failure.ErrorCode = "NotificationFailed"
)
