// Package message 元件之间交换能量的请求与供给消息
package message

import (
	"fmt"
	"math"
	"powertrain/types"
)

// tolerance 判断请求满足的相对误差
const tolerance = 1e-9

// Message 消息
type Message struct {
	SenderID types.ComponentID // 发送元件
	FromPort types.Port        // 发送端口
}

// Resource 交换的介质
func (m Message) Resource() types.Medium { return m.FromPort.Medium }

// DeliveryMessage 供给消息，可以部分满足请求
type DeliveryMessage struct {
	Message
	Delivery float64 // 供给量
}

// NewDelivery 创建供给消息，端口必须能输出
func NewDelivery(sender types.ComponentID, port types.Port, amount float64) (*DeliveryMessage, error) {
	if !port.CanSend() {
		return nil, fmt.Errorf("%w: %s 的 %s 端口不能供给", types.ErrInvalidPort, sender, port)
	}
	if math.IsNaN(amount) || amount < 0 {
		return nil, fmt.Errorf("%w: 供给量 %v 小于 0", types.ErrInvalidParameter, amount)
	}
	return &DeliveryMessage{Message: Message{SenderID: sender, FromPort: port}, Delivery: amount}, nil
}

// RequestMessage 请求消息，广播给所有供给方
type RequestMessage struct {
	Message
	Requested  float64            // 请求量
	Deliveries []*DeliveryMessage // 已收到的供给
	Abandoned  bool               // 放弃，不再等待供给
}

// NewRequest 创建请求消息，端口必须能输入
func NewRequest(sender types.ComponentID, port types.Port, amount float64) (*RequestMessage, error) {
	if !port.CanReceive() {
		return nil, fmt.Errorf("%w: %s 的 %s 端口不能请求", types.ErrInvalidPort, sender, port)
	}
	if math.IsNaN(amount) || amount < 0 {
		return nil, fmt.Errorf("%w: 请求量 %v 小于 0", types.ErrInvalidParameter, amount)
	}
	return &RequestMessage{Message: Message{SenderID: sender, FromPort: port}, Requested: amount}, nil
}

// Delivered 已供给量，不超过请求量
func (r *RequestMessage) Delivered() float64 {
	sum := 0.0
	for _, d := range r.Deliveries {
		sum += d.Delivery
	}
	return math.Min(sum, r.Requested)
}

// Remaining 剩余请求量
func (r *RequestMessage) Remaining() float64 { return math.Max(r.Requested-r.Delivered(), 0) }

// Fulfilled 已完全满足
func (r *RequestMessage) Fulfilled() bool {
	return r.Requested-r.Delivered() <= tolerance*math.Max(1, r.Requested)
}

// Pending 未满足且未放弃
func (r *RequestMessage) Pending() bool { return !r.Fulfilled() && !r.Abandoned }

// Ratio 已供给比例，请求量为0时为1
func (r *RequestMessage) Ratio() float64 {
	if r.Requested <= 0 {
		return 1
	}
	return r.Delivered() / r.Requested
}

// Abandon 放弃请求
func (r *RequestMessage) Abandon() { r.Abandoned = true }

// AddDelivery 添加供给，超过剩余量的部分被截断
func (r *RequestMessage) AddDelivery(d *DeliveryMessage) error {
	if d.Resource() != r.Resource() {
		return fmt.Errorf("%w: 请求 %s, 供给 %s", types.ErrMediumMismatch, r.Resource(), d.Resource())
	}
	if !d.FromPort.CanSend() {
		return fmt.Errorf("%w: %s 从输入端口供给", types.ErrInvalidPort, d.SenderID)
	}
	d.Delivery = math.Min(d.Delivery, r.Remaining())
	if !(d.Delivery > 0) {
		return fmt.Errorf("%w: %s 的请求已满足", types.ErrRequestFulfilled, r.SenderID)
	}
	r.Deliveries = append(r.Deliveries, d)
	return nil
}

// Deliver 由供给方创建供给消息并添加，返回实际接受的量
func (r *RequestMessage) Deliver(sender types.ComponentID, port types.Port, amount float64) (float64, error) {
	d, err := NewDelivery(sender, port, amount)
	if err != nil {
		return 0, err
	}
	if err := r.AddDelivery(d); err != nil {
		return 0, err
	}
	return d.Delivery, nil
}
