package element

import "powertrain/types"

// Context 元件上下文，按添加顺序保存元件。
type Context struct {
	Nodelist []NodeFace                     // 元件列表。
	Index    map[types.ComponentID]NodeFace // 元件索引。
}

// NewContext 初始化。
func NewContext() *Context {
	return &Context{Index: make(map[types.ComponentID]NodeFace)}
}

// Add 添加元件，标识重复时返回false。
func (con *Context) Add(node NodeFace) bool {
	if _, ok := con.Index[node.GetID()]; ok {
		return false
	}
	con.Nodelist = append(con.Nodelist, node)
	con.Index[node.GetID()] = node
	return true
}

// Get 按标识查找元件。
func (con *Context) Get(id types.ComponentID) (NodeFace, bool) {
	node, ok := con.Index[id]
	return node, ok
}

// Update 保存全部元件状态。
func (con *Context) Update() { CallMark(MarkUpdate, con.Nodelist) }

// Rollback 恢复全部元件到上次保存的状态。
func (con *Context) Rollback() { CallMark(MarkRollback, con.Nodelist) }

// CallMark 统一调用。
func (con *Context) CallMark(mark Mark) { CallMark(mark, con.Nodelist) }
