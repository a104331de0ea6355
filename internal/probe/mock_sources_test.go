package probe

import (
	"context"

	"github.com/dm/pcpulse/internal/client"
)

// mockCPU implements CPUSource for testing.
type mockCPU struct {
	BrandFn       func(ctx context.Context) (string, error)
	UsageFn       func(ctx context.Context, perCore bool) ([]float64, error)
	CountsFn      func(ctx context.Context, logical bool) (int, error)
	FrequenciesFn func(ctx context.Context) ([]float64, error)
}

func (m *mockCPU) Brand(ctx context.Context) (string, error) {
	if m.BrandFn != nil {
		return m.BrandFn(ctx)
	}
	return "Test CPU @ 2.00GHz", nil
}

func (m *mockCPU) Usage(ctx context.Context, perCore bool) ([]float64, error) {
	if m.UsageFn != nil {
		return m.UsageFn(ctx, perCore)
	}
	if perCore {
		return []float64{10, 20, 30, 40}, nil
	}
	return []float64{25}, nil
}

func (m *mockCPU) Counts(ctx context.Context, logical bool) (int, error) {
	if m.CountsFn != nil {
		return m.CountsFn(ctx, logical)
	}
	if logical {
		return 4, nil
	}
	return 2, nil
}

func (m *mockCPU) Frequencies(ctx context.Context) ([]float64, error) {
	if m.FrequenciesFn != nil {
		return m.FrequenciesFn(ctx)
	}
	return []float64{2000, 2000, 2000, 2000}, nil
}

// mockTemps implements TemperatureSource for testing.
type mockTemps struct {
	Readings []TempReading
	Err      error
}

func (m *mockTemps) Temperatures(context.Context) ([]TempReading, error) {
	return m.Readings, m.Err
}

// mockSensors implements client.SensorClient for testing.
type mockSensors struct {
	GetSensorsFn func(ctx context.Context) (*client.SensorNode, error)
}

func (m *mockSensors) GetSensors(ctx context.Context) (*client.SensorNode, error) {
	if m.GetSensorsFn != nil {
		return m.GetSensorsFn(ctx)
	}
	return &client.SensorNode{}, nil
}

func (m *mockSensors) Ping(context.Context) error { return nil }

func (m *mockSensors) BaseURL() string { return "http://mock:8085" }
