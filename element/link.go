package element

import "powertrain/types"

// CreateLink 创建两个元件端口之间的连接，端口不存在或不兼容时返回nil
func CreateLink(c1 NodeFace, role1 types.PortRole, c2 NodeFace, role2 types.PortRole) *types.Link {
	p1, ok1 := c1.Port(role1)
	p2, ok2 := c2.Port(role2)
	if !ok1 || !ok2 || !p1.IsCompatibleWith(p2) {
		return nil
	}
	l := types.NewLink(c1.GetID(), role1, c2.GetID(), role2)
	return &l
}

// CreateDriveTrainLink 将机械输出连接到传动系统
func CreateDriveTrainLink(c NodeFace) *types.Link {
	p, ok := c.Port(types.OutputPort)
	if !ok || p.Medium != types.MediumMechanical || !p.CanSend() {
		return nil
	}
	l := types.NewLink(c.GetID(), types.OutputPort, types.DriveTrainID, types.InputPort)
	return &l
}
