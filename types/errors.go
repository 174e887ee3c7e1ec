package types

import "errors"

// 错误定义
var (
	ErrTimeStep          = errors.New("时间步长无效")
	ErrControlSignal     = errors.New("控制信号超出范围")
	ErrOutOfLimits       = errors.New("超出限制")
	ErrEfficiency        = errors.New("效率无效")
	ErrInvalidParameter  = errors.New("参数无效")
	ErrNotReversible     = errors.New("元件不可逆")
	ErrCyclicLink        = errors.New("机械连接存在环路")
	ErrUnknownComponent  = errors.New("未知元件")
	ErrIncompatiblePorts = errors.New("端口不兼容")
	ErrMediumMismatch    = errors.New("介质不匹配")
	ErrRequestFulfilled  = errors.New("请求已满足")
	ErrDuplicateRequest  = errors.New("重复请求")
	ErrUnknownType       = errors.New("未知元件类型")
	ErrInvalidPort       = errors.New("端口方向无效")
	ErrRequestOrder      = errors.New("请求未按后进先出处理")
)
