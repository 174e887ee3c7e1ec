package element

// ForwardInput 正向传递的输入
type ForwardInput struct {
	Dt                float64   // 步长(s)
	Control           float64   // 控制信号，[0,1]，可逆元件[-1,1]
	LoadTorque        float64   // 负载转矩(N·m)
	Inertia           float64   // 自身转动惯量(kg·m²)，由元件填写
	DownstreamInertia float64   // 下游转动惯量(kg·m²)
	Demand            float64   // 下游需求功率(W)，按需元件使用
	MaxInput          float64   // 输入功率上限(W)，Limited 时有效
	Limited           bool      // 供给不足，按 MaxInput 重新计算
	Input             PortValue // 上游传入的流量，发电机使用
	InputRpm          float64   // 上游传入的转速
}

// TotalInertia 总转动惯量
func (in ForwardInput) TotalInertia() float64 { return in.Inertia + in.DownstreamInertia }

// DynamicResponse 动态响应：由当前快照和输入计算下一快照，不修改元件
type DynamicResponse interface {
	Reversible() bool
	Forward(s Snapshot, in ForwardInput, c Consumption, l Limits) (Snapshot, error)
}

// ReverseResponse 支持能量回收的动态响应，由输出端回流计算输入端
type ReverseResponse interface {
	DynamicResponse
	Reverse(s Snapshot, c Consumption, l Limits) (Snapshot, error)
}
