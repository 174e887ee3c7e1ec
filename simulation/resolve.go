package simulation

import (
	"fmt"
	"math"
	"powertrain/element"
	"powertrain/message"
	"powertrain/types"
	"powertrain/vehicle"
)

// supply 向上游请求本步消耗量中 prior 之外的部分，供给不足时按实际供给重新计算。
// 返回最终快照和消耗量，回收的能量交给可回充的能量源。
func (s *Simulation) supply(c *element.Converter, in element.ForwardInput, snap element.Snapshot, draw, prior float64) (element.Snapshot, float64, error) {
	port, ok := c.Port(types.InputPort)
	if !ok || port.Medium == types.MediumMechanical || draw == 0 {
		return snap, draw, nil
	}
	peers, err := s.Vehicle.FindSuppliers(c.ID, types.InputPort)
	if err != nil {
		return snap, draw, err
	}
	// 没有连接的输入端视为外部供给
	if len(peers) == 0 {
		return snap, draw, nil
	}
	if draw < 0 {
		if left := -draw - s.absorb(peers, -draw); left > 0 {
			s.logger.Debug("回收能量未被吸收", "tick", s.Tick, "component", c.ID, "energy", left)
		}
		return snap, draw, nil
	}
	if draw <= prior {
		return snap, draw, nil
	}
	req, err := message.NewRequest(c.ID, port, draw-prior)
	if err != nil {
		return snap, draw, err
	}
	if err := s.Vehicle.Requests.AddRequest(req); err != nil {
		return snap, draw, err
	}
	if err := s.resolveRequest(req, peers); err != nil {
		return snap, draw, err
	}
	if req.Fulfilled() {
		return snap, draw, nil
	}
	if err := s.Vehicle.Requests.Abandon(req); err != nil {
		return snap, draw, err
	}
	s.logger.Debug("请求未满足", "tick", s.Tick, "component", c.ID,
		"requested", req.Requested, "delivered", req.Delivered())
	// 按实际供给重新计算
	supplied := prior + req.Delivered()
	in.Limited = true
	in.MaxInput = snap.PowerIn() * supplied / draw
	limited, err := c.Forward(in)
	if err != nil {
		return snap, draw, err
	}
	got, err := c.Draw(limited, s.Dt)
	if err != nil {
		return snap, draw, err
	}
	return limited, math.Min(got, supplied), nil
}

// resolveRequest 按连接顺序向供给方请求，直到满足
func (s *Simulation) resolveRequest(req *message.RequestMessage, peers []vehicle.Peer) error {
	for _, p := range peers {
		if req.Fulfilled() {
			break
		}
		amount, err := s.deliver(p, req.Remaining())
		if err != nil {
			return err
		}
		if amount <= 0 {
			continue
		}
		port, err := s.Vehicle.Port(p.Endpoint)
		if err != nil {
			return err
		}
		if _, err := s.Vehicle.Requests.Deliver(req, p.Endpoint.ID, port, amount); err != nil {
			return err
		}
	}
	return nil
}

// deliver 供给方提供 amount，返回实际供给量。
// 能量源从储存中供给；转换元件先完成本步计算，再从本步输出中供给。
// 已计算的按需元件剩余输出不足时提高需求重新计算，多个下游共用一个输出端。
func (s *Simulation) deliver(p vehicle.Peer, amount float64) (float64, error) {
	switch c := p.Component.(type) {
	case *element.Converter:
		switch {
		case !s.tick.done[c.ID]:
			if c.DemandDriven() {
				s.tick.demand[c.ID] = amount / s.Dt
			}
			if err := s.process(c); err != nil {
				return 0, fmt.Errorf("%s: %w", c.ID, err)
			}
		case c.DemandDriven() && !s.tick.active[c.ID] && s.tick.budget[c.ID] < amount:
			if err := s.extend(c, amount-s.tick.budget[c.ID]); err != nil {
				return 0, fmt.Errorf("%s: %w", c.ID, err)
			}
		}
		got := math.Min(amount, s.tick.budget[c.ID])
		s.tick.budget[c.ID] -= got
		return got, nil
	case element.Source:
		return c.Deliver(amount, s.Dt), nil
	}
	return 0, nil
}

// extend 按需元件本步需求增加 extra(J)，重新计算并向上游请求增加的消耗
func (s *Simulation) extend(c *element.Converter, extra float64) error {
	s.tick.active[c.ID] = true
	defer delete(s.tick.active, c.ID)
	old := c.Snapshot()
	// 已交给下游的输出
	used := math.Max(old.PowerOut(), 0)*s.Dt - s.tick.budget[c.ID]
	s.tick.demand[c.ID] += extra / s.Dt
	in, err := s.forwardInput(c)
	if err != nil {
		return err
	}
	snap, err := c.Forward(in)
	if err != nil {
		return err
	}
	draw, err := c.Draw(snap, s.Dt)
	if err != nil {
		return err
	}
	if snap, draw, err = s.supply(c, in, snap, draw, s.tick.draw[c.ID]); err != nil {
		return err
	}
	backfill(&snap, draw, s.Dt)
	c.SetSnapshot(snap)
	s.tick.draw[c.ID] = draw
	s.tick.budget[c.ID] = math.Max(0, math.Max(snap.PowerOut(), 0)*s.Dt-used)
	return nil
}

// absorb 可回充的能量源按连接顺序吸收 amount(J)，返回吸收量
func (s *Simulation) absorb(peers []vehicle.Peer, amount float64) float64 {
	total := 0.0
	for _, p := range peers {
		src, ok := p.Component.(element.Source)
		if !ok || !src.Rechargeable() {
			continue
		}
		if amount-total <= 0 {
			break
		}
		total += src.Absorb(amount-total, s.Dt)
	}
	return total
}

// recharge 发电元件本步未被使用的输出回充下游能量源
func (s *Simulation) recharge(c *element.Converter) error {
	left := s.tick.budget[c.ID]
	if c.DemandDriven() || left <= 0 {
		return nil
	}
	peers, err := s.Vehicle.Consumers(c.ID)
	if err != nil {
		return err
	}
	s.tick.budget[c.ID] = left - s.absorb(peers, left)
	return nil
}
