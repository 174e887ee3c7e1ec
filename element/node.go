package element

import "powertrain/types"

// Node 元件节点结构体，存储元件的参数和当前状态。
// 状态在仿真过程中由仿真器替换，反映元件的当前工况。
type Node struct {
	ConfigPtr *Config           // 配置项指针。
	NodeType  NodeType          // 元件类型标识，对应ElementList中的注册类型。
	ID        types.ComponentID // 元件标识。
	Name      string            // 显示名称。
	NodeMass  float64           // 质量(kg)。
	NodeValue []float64         // 元件参数。
	Snap      Snapshot          // 当前快照。
	OrigSnap  Snapshot          // 快照备份，用于支持回滚操作。
}

// Base 获取元件的底层节点结构体指针。
func (node *Node) Base() *Node { return node }

// Config 获取元件配置信息。
func (node *Node) Config() *Config { return node.ConfigPtr }

// Type 获取元件的类型标识。
func (node *Node) Type() NodeType { return node.NodeType }

// GetID 获取元件标识。
func (node *Node) GetID() types.ComponentID { return node.ID }

// Mass 获取质量(kg)。
func (node *Node) Mass() float64 { return node.NodeMass }

// Port 获取端口，没有该端口时返回false。
func (node *Node) Port(role types.PortRole) (types.Port, bool) {
	if p := node.ConfigPtr.Port(role); p != nil {
		return *p, true
	}
	return types.Port{}, false
}

// Snapshot 获取当前快照。
func (node *Node) Snapshot() Snapshot { return node.Snap }

// SetSnapshot 替换当前快照。
func (node *Node) SetSnapshot(snap Snapshot) { node.Snap = snap }

// Update 更新操作，将当前快照保存到备份中。
func (node *Node) Update() { node.OrigSnap = node.Snap }

// Rollback 回溯操作，将备份的快照恢复到当前值。
func (node *Node) Rollback() { node.Snap = node.OrigSnap }

// GetFloat64 获取指定索引处的参数。
// 返回：对应位置的参数，如果索引无效则返回0。
func (node *Node) GetFloat64(i int) float64 {
	if i >= 0 && i < len(node.NodeValue) {
		return node.NodeValue[i]
	}
	return 0
}

// SetFloat64 设置指定索引处的参数。
func (node *Node) SetFloat64(i int, v float64) {
	if i >= 0 && i < len(node.NodeValue) {
		node.NodeValue[i] = v
	}
}

// Value 按名称获取参数。
func (node *Node) Value(name string) float64 {
	return node.GetFloat64(node.ConfigPtr.ValueIndex(name))
}
