package element

import (
	"fmt"
	"log"
	"powertrain/types"
	"slices"
	"strings"
)

// elementFace 元件接口，组合了配置接口和元件实现接口
type elementFace interface {
	ConfigFace  // 元件配置接口，提供元件的静态配置信息
	ElementFace // 元件实现接口，提供元件的动态行为实现
}

// ElementList 元件类型注册表
var ElementList = map[NodeType]elementFace{}

// ElementListName 元件名称到类型的映射
var ElementListName = map[string]NodeType{}

// AddElement 注册元件类型到全局元件列表
// 参数eleType: 元件类型标识，必须是唯一的
// 参数face: 元件接口实现
// 注意：类型或名称重复注册会触发致命错误并终止程序
func AddElement(eleType NodeType, face elementFace) NodeType {
	if _, ok := ElementList[eleType]; ok {
		log.Fatalf("元件重复注册: %d", eleType)
	}
	name := face.GetConfig().GetName()
	if _, ok := ElementListName[name]; ok {
		log.Fatalf("元件名称重复注册: %s", name)
	}
	ElementList[eleType] = face
	ElementListName[name] = eleType
	return eleType
}

// Names 已注册的元件名称，按字母排序
func Names() []string {
	list := make([]string, 0, len(ElementListName))
	for name := range ElementListName {
		list = append(list, name)
	}
	slices.Sort(list)
	return list
}

// NewElement 根据元件类型名称创建元件
// 参数value: 按参数名称覆盖默认值
func NewElement(name string, id types.ComponentID, value map[string]float64) (NodeFace, error) {
	nodeType, ok := ElementListName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownType, name)
	}
	return NewElementValue(nodeType, id, value)
}

// NewElementValue 根据元件类型创建元件，返回零流量初始状态的元件
func NewElementValue(eleType NodeType, id types.ComponentID, value map[string]float64) (NodeFace, error) {
	ele, ok := ElementList[eleType]
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownType, eleType)
	}
	config := ele.GetConfig()
	// 初始化节点数据结构
	node := &Node{
		ConfigPtr: config,
		NodeType:  eleType,
		ID:        id,
		Name:      string(id),
		NodeValue: slices.Clone(config.ValueInit),
	}
	// 初始化参数
	for name, v := range value {
		i := config.ValueIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: 元件 %s 没有参数 %q", types.ErrInvalidParameter, config.Name, name)
		}
		node.NodeValue[i] = v
	}
	face, err := ele.Build(node)
	if err != nil {
		return nil, fmt.Errorf("创建元件 %s(%s) 失败: %w", id, config.Name, err)
	}
	// 元件初始化
	ele.Reset(face)
	face.Update()
	return face, nil
}

// NewConverter 创建转换元件
func NewConverter(eleType NodeType, id types.ComponentID, value map[string]float64) (*Converter, error) {
	face, err := NewElementValue(eleType, id, value)
	if err != nil {
		return nil, err
	}
	c, ok := face.(*Converter)
	if !ok {
		return nil, fmt.Errorf("%w: %s 不是转换元件", types.ErrUnknownType, eleType)
	}
	return c, nil
}

// NodeType 元件类型标识
type NodeType uint

// Config 获取指定元件类型的配置信息
func (t NodeType) Config() *Config {
	if node, ok := ElementList[t]; ok {
		return node.GetConfig()
	}
	return nil
}

func (t NodeType) String() string {
	if config := t.Config(); config != nil {
		return config.GetName()
	}
	return fmt.Sprintf("NodeType(%d)", uint(t))
}

// NodeFace 元件节点接口，仿真过程中元件实例的主要接口
type NodeFace interface {
	Type() NodeType                              // 获取元件类型标识
	Base() *Node                                 // 获取底层节点结构体指针
	Config() *Config                             // 获取元件配置
	GetID() types.ComponentID                    // 获取元件标识
	Port(role types.PortRole) (types.Port, bool) // 获取端口
	Mass() float64                               // 获取质量(kg)
	Snapshot() Snapshot                          // 获取当前快照
	SetSnapshot(snap Snapshot)                   // 替换当前快照
	Update()                                     // 更新操作：将当前值保存到备份
	Rollback()                                   // 回溯操作：将备份值恢复到当前值
	GetFloat64(i int) float64                    // 获取第i个参数
	SetFloat64(i int, v float64)                 // 设置第i个参数
}

// ConfigFace 元件配置接口
type ConfigFace interface {
	GetConfig() *Config                // 获取元件配置结构体指针
	Build(node *Node) (NodeFace, error) // 根据节点参数构建元件
}

// ElementFace 元件实现接口，定义元件在仿真步中的回调
type ElementFace interface {
	Reset(value NodeFace)     // 恢复到零流量初始状态
	StartTick(value NodeFace) // 仿真步开始时的回调
}
