package engine

import (
	"context"

	"github.com/dm/pcpulse/internal/model"
)

// MockProbe implements probe.PlatformProbe for testing.
type MockProbe struct {
	CPUFn         func(ctx context.Context) model.CPU
	GPUFn         func(ctx context.Context) model.GPU
	MotherboardFn func(ctx context.Context) model.Motherboard
}

func (m *MockProbe) Platform() string { return "mock" }

func (m *MockProbe) CPU(ctx context.Context) model.CPU {
	if m.CPUFn != nil {
		return m.CPUFn(ctx)
	}
	c := model.NewCPU()
	c.Name = "Mock CPU"
	c.OverallUsage = 12.5
	return c
}

func (m *MockProbe) GPU(ctx context.Context) model.GPU {
	if m.GPUFn != nil {
		return m.GPUFn(ctx)
	}
	return model.NewGPU()
}

func (m *MockProbe) Motherboard(ctx context.Context) model.Motherboard {
	if m.MotherboardFn != nil {
		return m.MotherboardFn(ctx)
	}
	mb := model.NewMotherboard()
	mb.Manufacturer = "Mock"
	return mb
}
