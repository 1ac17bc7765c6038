package cli

import (
	"errors"
	"io"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const (
	apiVersion  = "1.0"
	errorDomain = "fantasy-hockey"
)

// Exit codes returned by Runner.Run.
const (
	ExitOK                   = 0
	ExitInternal             = 1
	ExitUsage                = 2
	ExitNotFound             = 3
	ExitConfirmationRequired = 4
	ExitUnavailable          = 5
)

type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Command    string     `json:"command"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}

type mappedError struct {
	ExitCode int
	Reason   string
	Status   string
}

func writeJSON(w io.Writer, payload any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w io.Writer, command string, data any) error {
	return writeJSON(w, responseEnvelope{
		APIVersion: apiVersion,
		Command:    command,
		Data:       data,
	})
}

func writeError(w io.Writer, command string, err error) int {
	mapped := mapError(err)
	_ = writeJSON(w, responseEnvelope{
		APIVersion: apiVersion,
		Command:    command,
		Error: &errorBody{
			Code:    mapped.ExitCode,
			Message: err.Error(),
			Status:  mapped.Status,
			Domain:  errorDomain,
			Reason:  mapped.Reason,
		},
	})
	return mapped.ExitCode
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, errUsage), errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{ExitCode: ExitUsage, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{ExitCode: ExitNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrConfirmationRequired):
		return mappedError{ExitCode: ExitConfirmationRequired, Reason: "confirmationRequired", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrScoringInProgress), errors.Is(err, resilience.ErrCircuitOpen):
		return mappedError{ExitCode: ExitUnavailable, Reason: "unavailable", Status: "UNAVAILABLE"}
	default:
		return mappedError{ExitCode: ExitInternal, Reason: "internalError", Status: "INTERNAL"}
	}
}
