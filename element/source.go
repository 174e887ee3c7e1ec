package element

// Source 能量源：电池、油箱
type Source interface {
	NodeFace
	Deliver(amount, dt float64) float64 // 供给能量(J)或燃料(L/kg)，返回实际供给量
	Absorb(amount, dt float64) float64  // 回充能量(J)，返回实际接收量
	Rechargeable() bool                 // 是否可回充
	Stored() float64                    // 当前储存量
	IsEmpty() bool                      // 是否耗尽
}
