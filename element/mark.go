package element

import "log"

// Mark 用于区分事件的标记
type Mark uint8

// 接口回调类型
const (
	MarkReset     Mark = iota // 元件重置
	MarkStartTick             // 仿真步开始
	MarkUpdate                // 保存状态
	MarkRollback              // 回滚状态
)

// CallMark 统一调用
func CallMark(mark Mark, value []NodeFace) {
	switch mark {
	case MarkReset:
		for _, v := range value {
			ElementList[v.Type()].Reset(v)
			v.Update()
		}
	case MarkStartTick:
		for _, v := range value {
			ElementList[v.Type()].StartTick(v)
		}
	case MarkUpdate:
		for _, v := range value {
			v.Update()
		}
	case MarkRollback:
		for _, v := range value {
			v.Rollback()
		}
	default:
		log.Fatalf("未知 CallMark 操作: %d", mark)
	}
}
