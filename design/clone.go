package design

// 该文件集中定义各聚合类型的深拷贝。历史管理器只持有这里产生的副本，
// 任何字段新增都必须同步到对应的 Clone，由 clone_test.go 的隔离性测试兜底。

// Clone 返回文本框的独立副本。
func (b TextBoxModel) Clone() TextBoxModel {
	return b // 纯值字段，浅拷贝即深拷贝
}

// Clone 返回画布状态的深拷贝，TextBoxes 切片重新分配。
func (s CanvasDesignState) Clone() CanvasDesignState {
	out := s
	if s.TextBoxes != nil {
		out.TextBoxes = make([]TextBoxModel, len(s.TextBoxes))
		for i := range s.TextBoxes {
			out.TextBoxes[i] = s.TextBoxes[i].Clone()
		}
	}
	return out
}

// Clone 返回画布记录的深拷贝。
func (r ProjectCanvasRecord) Clone() ProjectCanvasRecord {
	out := r
	out.State = r.State.Clone()
	return out
}

// Clone 返回项目状态的深拷贝，Canvases 切片重新分配。
func (p ProjectDesignState) Clone() ProjectDesignState {
	out := p
	if p.Canvases != nil {
		out.Canvases = make([]ProjectCanvasRecord, len(p.Canvases))
		for i := range p.Canvases {
			out.Canvases[i] = p.Canvases[i].Clone()
		}
	}
	return out
}

// Clone 返回项目条目的深拷贝。
func (r ProjectRecord) Clone() ProjectRecord {
	out := r
	out.State = r.State.Clone()
	return out
}

// Clone 返回整个工作区快照的深拷贝，修改副本的任何嵌套字段都不会影响原值。
func (ws WorkspaceState) Clone() WorkspaceState {
	out := ws
	if ws.Projects != nil {
		out.Projects = make([]ProjectRecord, len(ws.Projects))
		for i := range ws.Projects {
			out.Projects[i] = ws.Projects[i].Clone()
		}
	}
	return out
}
