package message

import (
	"fmt"
	"powertrain/types"
)

// Stack 请求栈，按到达顺序保存，最后一个未满足的请求先处理。
// 通过 Deliver 和 Abandon 处理请求时检查顺序
type Stack struct {
	Requests []*RequestMessage
}

// NewStack 创建空栈
func NewStack() *Stack { return &Stack{} }

// Reset 清空
func (s *Stack) Reset() { s.Requests = s.Requests[:0] }

// Count 请求数量
func (s *Stack) Count() int { return len(s.Requests) }

// PendingCount 未满足的请求数量
func (s *Stack) PendingCount() int {
	n := 0
	for _, r := range s.Requests {
		if r.Pending() {
			n++
		}
	}
	return n
}

// FulfilledCount 已满足的请求数量
func (s *Stack) FulfilledCount() int {
	n := 0
	for _, r := range s.Requests {
		if r.Fulfilled() {
			n++
		}
	}
	return n
}

// LastRequest 栈顶请求，空栈返回nil
func (s *Stack) LastRequest() *RequestMessage {
	if len(s.Requests) == 0 {
		return nil
	}
	return s.Requests[len(s.Requests)-1]
}

// PendingRequest 最后一个未满足的请求，没有返回nil
func (s *Stack) PendingRequest() *RequestMessage {
	for i := len(s.Requests) - 1; i >= 0; i-- {
		if s.Requests[i].Pending() {
			return s.Requests[i]
		}
	}
	return nil
}

// AddRequest 入栈，同一元件同一端口已有未满足的请求时拒绝
func (s *Stack) AddRequest(r *RequestMessage) error {
	for _, old := range s.Requests {
		if old == r || (old.Pending() && old.SenderID == r.SenderID && old.FromPort == r.FromPort) {
			return fmt.Errorf("%w: %s", types.ErrDuplicateRequest, r.SenderID)
		}
	}
	s.Requests = append(s.Requests, r)
	return nil
}

// top 检查 r 是否为最后一个未满足的请求
func (s *Stack) top(r *RequestMessage) error {
	if p := s.PendingRequest(); p != r {
		if p == nil {
			return fmt.Errorf("%w: %s 不在栈中等待", types.ErrRequestOrder, r.SenderID)
		}
		return fmt.Errorf("%w: %s 的请求需要先处理", types.ErrRequestOrder, p.SenderID)
	}
	return nil
}

// Deliver 向栈顶请求供给，r 之后还有未满足的请求时拒绝
func (s *Stack) Deliver(r *RequestMessage, sender types.ComponentID, port types.Port, amount float64) (float64, error) {
	if err := s.top(r); err != nil {
		return 0, err
	}
	return r.Deliver(sender, port, amount)
}

// Abandon 放弃栈顶请求，r 之后还有未满足的请求时拒绝
func (s *Stack) Abandon(r *RequestMessage) error {
	if err := s.top(r); err != nil {
		return err
	}
	r.Abandon()
	return nil
}
