package probe

import (
	"context"

	"github.com/dm/pcpulse/internal/model"
)

// genericProbe serves platforms without a dedicated variant.
type genericProbe struct {
	base
}

func (p *genericProbe) CPU(ctx context.Context) model.CPU {
	c := p.cpuBasics(ctx)
	c.Temperatures["CPU"] = nil
	return c
}

func (p *genericProbe) GPU(context.Context) model.GPU {
	return model.NewGPU()
}

func (p *genericProbe) Motherboard(context.Context) model.Motherboard {
	return model.NewMotherboard()
}
