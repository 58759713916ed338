package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %s, expected ok", report.Status)
	}
	if report.Checks["database"] != CheckOK {
		t.Errorf("database = %s, expected ok", report.Checks["database"])
	}
	if report.Checks["insight_provider"] != CheckOK {
		t.Errorf("insight_provider = %s, expected ok", report.Checks["insight_provider"])
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("Status = %s, expected degraded", report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database = %s, expected error", report.Checks["database"])
	}
}

func TestCheck_NilProviderSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %s, expected ok", report.Status)
	}
	if _, ok := report.Checks["insight_provider"]; ok {
		t.Error("expected no insight_provider check")
	}
}
