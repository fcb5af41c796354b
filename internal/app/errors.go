package app

import (
	"fmt"
	"net/http"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func badRequest(message string, details any) *DomainError {
	return domainError(http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func configError(message string) *DomainError {
	return domainError(http.StatusInternalServerError, "CONFIG_ERROR", message, nil)
}

func upstreamError(message string, details any) *DomainError {
	return domainError(http.StatusInternalServerError, "UPSTREAM_ERROR", message, details)
}
