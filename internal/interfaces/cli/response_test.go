package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{err: fmt.Errorf("%w: bad flag", errUsage), code: ExitUsage},
		{err: fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput), code: ExitUsage},
		{err: usecase.ErrNoActivePeriod, code: ExitNotFound},
		{err: usecase.ErrConfirmationRequired, code: ExitConfirmationRequired},
		{err: usecase.ErrScoringInProgress, code: ExitUnavailable},
		{err: resilience.ErrCircuitOpen, code: ExitUnavailable},
		{err: errors.New("connection refused"), code: ExitInternal},
	}
	for _, tt := range tests {
		if got := mapError(tt.err).ExitCode; got != tt.code {
			t.Fatalf("mapError(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	code := writeError(&buf, "standings", usecase.ErrNoActivePeriod)
	if code != ExitNotFound {
		t.Fatalf("expected exit %d, got %d", ExitNotFound, code)
	}

	var body responseEnvelope
	if err := sonic.Unmarshal(buf.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.APIVersion != apiVersion || body.Command != "standings" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Error == nil || body.Error.Status != "NOT_FOUND" || body.Error.Domain != errorDomain {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
}
