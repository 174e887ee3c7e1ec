package types

import "fmt"

// ComponentID 元件标识
type ComponentID string

// DriveTrainID 传动系统标识，作为连接的终点
const DriveTrainID ComponentID = "DriveTrain"

// PortRole 端口角色
type PortRole uint8

const (
	InputPort  PortRole = iota // 输入端口
	OutputPort                 // 输出端口
)

func (r PortRole) String() string {
	switch r {
	case InputPort:
		return "input"
	case OutputPort:
		return "output"
	}
	return fmt.Sprintf("PortRole(%d)", uint8(r))
}

// ParsePortRole 解析端口角色
func ParsePortRole(s string) (PortRole, error) {
	switch s {
	case "input", "in":
		return InputPort, nil
	case "output", "out":
		return OutputPort, nil
	}
	return 0, fmt.Errorf("%w: 未知端口角色 %q", ErrInvalidParameter, s)
}

// Endpoint 连接端点
type Endpoint struct {
	ID   ComponentID // 元件
	Role PortRole    // 端口
}

func (e Endpoint) String() string { return fmt.Sprintf("%s.%s", e.ID, e.Role) }

// Link 端口连接
type Link struct {
	From Endpoint // 起点
	To   Endpoint // 终点
}

// NewLink 创建连接
func NewLink(id1 ComponentID, role1 PortRole, id2 ComponentID, role2 PortRole) Link {
	return Link{From: Endpoint{id1, role1}, To: Endpoint{id2, role2}}
}

// IsDriveTrain 是否连接到传动系统
func (l Link) IsDriveTrain() bool {
	return l.To.ID == DriveTrainID || l.From.ID == DriveTrainID
}

// Has 是否包含端点
func (l Link) Has(e Endpoint) bool { return l.From == e || l.To == e }

// Opposite 返回另一端
func (l Link) Opposite(e Endpoint) (Endpoint, bool) {
	switch e {
	case l.From:
		return l.To, true
	case l.To:
		return l.From, true
	}
	return Endpoint{}, false
}

// Reversed 交换两端
func (l Link) Reversed() Link { return Link{From: l.To, To: l.From} }

func (l Link) String() string { return l.From.String() + " -> " + l.To.String() }
