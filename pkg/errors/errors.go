package errors

import (
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"
)

const (
	ErrCodeToolUnavailable  ErrCode = "TOOL_UNAVAILABLE"
	ErrCodeDownloadFailed   ErrCode = "DOWNLOAD_FAILED"
	ErrCodeProfileUnknown   ErrCode = "PROFILE_UNKNOWN"
	ErrCodeConfigInvalid    ErrCode = "CONFIG_INVALID"
	ErrCodeDigestInvalid    ErrCode = "DIGEST_INVALID"
	ErrCodeInvalidParameter ErrCode = "INVALID_PARAMETER"
	ErrCodeInternal         ErrCode = "INTERNAL"
)

const (
	ExitCodeGeneric         = 1
	ExitCodeToolUnavailable = 127
)

type ErrCode string

type ErrorInfo struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
	Detail  string  `json:"detail,omitempty"`
	// ExitStatus is the exit status of the child process, if any.
	ExitStatus int `json:"exitStatus,omitempty"`
}

func (e ErrorInfo) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsErrCode(err error, code ErrCode) bool {
	if err == nil {
		return false
	}
	info := ErrorInfo{}
	if errors.As(err, &info) {
		return info.Code == code
	}
	return false
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	info := ErrorInfo{}
	if !errors.As(err, &info) {
		return ExitCodeGeneric
	}
	switch info.Code {
	case ErrCodeToolUnavailable:
		return ExitCodeToolUnavailable
	case ErrCodeDownloadFailed:
		if info.ExitStatus > 0 {
			return info.ExitStatus
		}
	}
	return ExitCodeGeneric
}

func NewToolUnavailableError(program string, err error) ErrorInfo {
	return ErrorInfo{Code: ErrCodeToolUnavailable, Message: fmt.Sprintf("%s is not available", program), Detail: errString(err)}
}

func NewDownloadFailedError(command string, status int, err error) ErrorInfo {
	return ErrorInfo{Code: ErrCodeDownloadFailed, Message: fmt.Sprintf("%s exited with status %d", command, status), Detail: errString(err), ExitStatus: status}
}

func NewProfileUnknownError(name string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeProfileUnknown, Message: fmt.Sprintf("profile: %s not found", name)}
}

func NewConfigInvalidError(msg string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeConfigInvalid, Message: msg}
}

func NewDigestInvalidError(expected, got digest.Digest) ErrorInfo {
	return ErrorInfo{Code: ErrCodeDigestInvalid, Message: fmt.Sprintf("digest invalid: expected %s, got %s", expected, got)}
}

func NewParameterInvalidError(msg string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeInvalidParameter, Message: msg}
}

func NewInternalError(err error) ErrorInfo {
	return ErrorInfo{Code: ErrCodeInternal, Message: err.Error()}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
