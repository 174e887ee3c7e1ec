package vehicle

import (
	"fmt"
	"powertrain/element"
	"powertrain/types"
)

// Peer 连接另一端的元件
type Peer struct {
	Endpoint  types.Endpoint   // 另一端
	Component element.NodeFace // 元件，传动系统为nil
}

// IsDriveTrain 另一端是传动系统
func (p Peer) IsDriveTrain() bool { return p.Endpoint.ID == types.DriveTrainID }

// FindSuppliers 与 (id, role) 相连的全部另一端，按连接添加顺序
func (v *Vehicle) FindSuppliers(id types.ComponentID, role types.PortRole) ([]Peer, error) {
	if id != types.DriveTrainID {
		if _, ok := v.Context.Get(id); !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownComponent, id)
		}
	}
	ends := v.Links.Opposites(types.Endpoint{ID: id, Role: role})
	peers := make([]Peer, 0, len(ends))
	for _, e := range ends {
		if e.ID == types.DriveTrainID {
			peers = append(peers, Peer{Endpoint: e})
			continue
		}
		c, ok := v.Context.Get(e.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownComponent, e.ID)
		}
		peers = append(peers, Peer{Endpoint: e, Component: c})
	}
	return peers, nil
}

// Consumers 元件输出端连接的全部元件
func (v *Vehicle) Consumers(id types.ComponentID) ([]Peer, error) {
	return v.FindSuppliers(id, types.OutputPort)
}

// DownstreamInertia 经输出端机械连接可达的转动惯量之和，传动系统为终点
func (v *Vehicle) DownstreamInertia(id types.ComponentID) (float64, error) {
	return v.inertia(id, types.OutputPort, map[types.ComponentID]bool{})
}

// UpstreamInertia 经输入端机械连接可达的转动惯量之和
func (v *Vehicle) UpstreamInertia(id types.ComponentID) (float64, error) {
	return v.inertia(id, types.InputPort, map[types.ComponentID]bool{})
}

// inertia 沿 role 方向递归累加，非机械连接的元件终止遍历，转动惯量为 0 的齿轮继续
func (v *Vehicle) inertia(id types.ComponentID, role types.PortRole, path map[types.ComponentID]bool) (float64, error) {
	if path[id] {
		return 0, fmt.Errorf("%w: 经过 %s", types.ErrCyclicLink, id)
	}
	path[id] = true
	defer delete(path, id)
	peers, err := v.FindSuppliers(id, role)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, p := range peers {
		if p.IsDriveTrain() {
			if role == types.OutputPort {
				total += v.DriveTrain.Inertia()
			}
			continue
		}
		c, ok := p.Component.(*element.Converter)
		if !ok {
			continue
		}
		if port, ok := c.Port(p.Endpoint.Role); !ok || port.Medium != types.MediumMechanical {
			continue
		}
		sub, err := v.inertia(c.ID, role, path)
		if err != nil {
			return 0, err
		}
		total += c.Inertia + sub
	}
	return total, nil
}

// ReachesDriveTrain 经输出端机械连接能否到达传动系统
func (v *Vehicle) ReachesDriveTrain(id types.ComponentID) (bool, error) {
	return v.reaches(id, map[types.ComponentID]bool{})
}

func (v *Vehicle) reaches(id types.ComponentID, path map[types.ComponentID]bool) (bool, error) {
	if path[id] {
		return false, fmt.Errorf("%w: 经过 %s", types.ErrCyclicLink, id)
	}
	path[id] = true
	defer delete(path, id)
	peers, err := v.Consumers(id)
	if err != nil {
		return false, err
	}
	for _, p := range peers {
		if p.IsDriveTrain() {
			return true, nil
		}
		if port, ok := p.Component.Port(p.Endpoint.Role); !ok || port.Medium != types.MediumMechanical {
			continue
		}
		ok, err := v.reaches(p.Endpoint.ID, path)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
