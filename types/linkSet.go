package types

import "slices"

// LinkSet 连接集合，只增不减
type LinkSet struct {
	Links    []Link                // 连接列表
	Endpoint map[Endpoint][]int    // 端点到连接索引
	Element  map[ComponentID][]int // 元件到连接索引
}

// NewLinkSet 初始化
func NewLinkSet() *LinkSet {
	return &LinkSet{
		Endpoint: make(map[Endpoint][]int),
		Element:  make(map[ComponentID][]int),
	}
}

// Contains 是否已存在（不区分方向）
func (ls *LinkSet) Contains(l Link) bool {
	return slices.Contains(ls.Links, l) || slices.Contains(ls.Links, l.Reversed())
}

// Add 添加连接，重复添加无效
func (ls *LinkSet) Add(l Link) bool {
	if ls.Contains(l) {
		return false
	}
	i := len(ls.Links)
	ls.Links = append(ls.Links, l)
	ls.Endpoint[l.From] = append(ls.Endpoint[l.From], i)
	ls.Endpoint[l.To] = append(ls.Endpoint[l.To], i)
	ls.Element[l.From.ID] = append(ls.Element[l.From.ID], i)
	if l.To.ID != l.From.ID {
		ls.Element[l.To.ID] = append(ls.Element[l.To.ID], i)
	}
	return true
}

// Len 连接数量
func (ls *LinkSet) Len() int { return len(ls.Links) }

// Of 端点上的连接
func (ls *LinkSet) Of(e Endpoint) []Link {
	list := make([]Link, 0, len(ls.Endpoint[e]))
	for _, i := range ls.Endpoint[e] {
		list = append(list, ls.Links[i])
	}
	return list
}

// Opposites 与端点相连的另一端列表，按添加顺序
func (ls *LinkSet) Opposites(e Endpoint) []Endpoint {
	list := make([]Endpoint, 0, len(ls.Endpoint[e]))
	for _, i := range ls.Endpoint[e] {
		if o, ok := ls.Links[i].Opposite(e); ok && !slices.Contains(list, o) {
			list = append(list, o)
		}
	}
	return list
}

// OfElement 元件上的所有连接
func (ls *LinkSet) OfElement(id ComponentID) []Link {
	list := make([]Link, 0, len(ls.Element[id]))
	for _, i := range ls.Element[id] {
		list = append(list, ls.Links[i])
	}
	return list
}
