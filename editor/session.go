// Package editor 将设计状态存储与历史管理器装配为一个编辑会话：
// 所有变更走会话方法，入参经 design 的钳制净化，变更后通知历史管理器观察。
package editor

import (
	"fmt"

	"github.com/ByLCY/vitrine/design"
	"github.com/ByLCY/vitrine/history"
	"github.com/ByLCY/vitrine/layout"
)

// Option 在创建会话时修改其配置。
type Option func(*Session)

// WithFaces 注入文本度量能力（通常由渲染器提供）。
func WithFaces(faces layout.FaceSource) Option {
	return func(s *Session) { s.faces = faces }
}

// WithHistoryOptions 透传历史管理器配置，测试用小的空闲窗口。
func WithHistoryOptions(opts ...history.Option) Option {
	return func(s *Session) { s.histOpts = opts }
}

// Session 持有工作区的活动状态。派生数据（几何、折行、形状）不在会话中缓存，
// 每次通过 Compose 系列方法重算。
type Session struct {
	ws       design.WorkspaceState
	hist     *history.Manager
	faces    layout.FaceSource
	histOpts []history.Option
}

// NewSession 以单个项目创建编辑会话。
func NewSession(project design.ProjectRecord, opts ...Option) *Session {
	ws := design.WorkspaceState{
		Projects:         []design.ProjectRecord{project},
		CurrentProjectID: project.ID,
		CurrentCanvasID:  project.State.CurrentCanvasID,
	}
	ws.Normalize()

	s := &Session{ws: ws}
	for _, o := range opts {
		o(s)
	}
	histOpts := append([]history.Option{history.WithRestore(s.adopt)}, s.histOpts...)
	s.hist = history.NewManager(ws, histOpts...)
	return s
}

// adopt 是撤销/重做的恢复回调：采用快照并修复悬空引用
//（被外部删除的画布/文本框 id 回落到第一张画布并清除选中），绝不失败。
func (s *Session) adopt(snap design.WorkspaceState) {
	snap.Normalize()
	s.ws = snap
}

// Workspace 返回当前工作区快照的深拷贝。
func (s *Session) Workspace() design.WorkspaceState { return s.ws.Clone() }

// observe 在每次变更后调用，驱动历史管理器的合并提交。
func (s *Session) observe() {
	s.ws.Normalize()
	s.hist.Observe(s.ws)
}

func (s *Session) currentProject() *design.ProjectRecord {
	for i := range s.ws.Projects {
		if s.ws.Projects[i].ID == s.ws.CurrentProjectID {
			return &s.ws.Projects[i]
		}
	}
	return &s.ws.Projects[0]
}

func (s *Session) currentCanvas() *design.ProjectCanvasRecord {
	proj := s.currentProject()
	for i := range proj.State.Canvases {
		if proj.State.Canvases[i].ID == s.ws.CurrentCanvasID {
			return &proj.State.Canvases[i]
		}
	}
	return &proj.State.Canvases[0]
}

// CurrentCanvas 返回当前画布记录的深拷贝。
func (s *Session) CurrentCanvas() design.ProjectCanvasRecord { return s.currentCanvas().Clone() }

// ProjectState 返回当前项目状态的深拷贝，供持久化。
func (s *Session) ProjectState() design.ProjectDesignState { return s.currentProject().State.Clone() }

// ProjectName 返回当前项目名称。
func (s *Session) ProjectName() string { return s.currentProject().Name }

// AddProject 向工作区追加一个项目并切换过去，返回其 id。
func (s *Session) AddProject(name string) string {
	proj := design.NewProject(name)
	s.ws.Projects = append(s.ws.Projects, proj)
	s.ws.CurrentProjectID = proj.ID
	s.ws.CurrentCanvasID = proj.State.CurrentCanvasID
	s.ws.SelectedTextBoxID = ""
	s.observe()
	return proj.ID
}

// SelectProject 切换当前项目，焦点画布随之回落到该项目的当前画布。
func (s *Session) SelectProject(id string) error {
	for i := range s.ws.Projects {
		if s.ws.Projects[i].ID != id {
			continue
		}
		s.ws.CurrentProjectID = id
		s.ws.CurrentCanvasID = s.ws.Projects[i].State.CurrentCanvasID
		s.ws.SelectedTextBoxID = ""
		s.observe()
		return nil
	}
	return fmt.Errorf("项目 %s 不存在", id)
}

// --- 画布操作 ---

// AddCanvas 追加一张默认画布并切换过去，返回其 id。
func (s *Session) AddCanvas(name string) string {
	proj := s.currentProject()
	rec := design.NewCanvas(name)
	proj.State.Canvases = append(proj.State.Canvases, rec)
	proj.State.CurrentCanvasID = rec.ID
	s.ws.CurrentCanvasID = rec.ID
	s.ws.SelectedTextBoxID = ""
	s.observe()
	return rec.ID
}

// SelectCanvas 按 id 或名称切换当前画布。
func (s *Session) SelectCanvas(idOrName string) error {
	proj := s.currentProject()
	for i := range proj.State.Canvases {
		rec := &proj.State.Canvases[i]
		if rec.ID == idOrName || rec.Name == idOrName {
			proj.State.CurrentCanvasID = rec.ID
			s.ws.CurrentCanvasID = rec.ID
			s.ws.SelectedTextBoxID = ""
			s.observe()
			return nil
		}
	}
	return fmt.Errorf("画布 %s 不存在", idOrName)
}

// RemoveCanvas 删除指定画布。项目必须至少保留一张画布。
func (s *Session) RemoveCanvas(id string) error {
	proj := s.currentProject()
	if len(proj.State.Canvases) <= 1 {
		return fmt.Errorf("项目至少需要保留一张画布")
	}
	for i := range proj.State.Canvases {
		if proj.State.Canvases[i].ID != id {
			continue
		}
		proj.State.Canvases = append(proj.State.Canvases[:i], proj.State.Canvases[i+1:]...)
		s.observe()
		return nil
	}
	return fmt.Errorf("画布 %s 不存在", id)
}

// --- 文本框操作 ---

// AddTextBox 在当前画布追加一个文本框并选中，返回其 id。
func (s *Session) AddTextBox(text string) string {
	rec := s.currentCanvas()
	preset := design.PresetByID(rec.State.CanvasPresetID)
	box := design.NewTextBox(text, preset.Width*0.1, preset.Height*0.08)
	rec.State.TextBoxes = append(rec.State.TextBoxes, box)
	s.ws.SelectedTextBoxID = box.ID
	s.observe()
	return box.ID
}

// RemoveTextBox 从当前画布删除文本框。
func (s *Session) RemoveTextBox(id string) error {
	rec := s.currentCanvas()
	for i := range rec.State.TextBoxes {
		if rec.State.TextBoxes[i].ID != id {
			continue
		}
		rec.State.TextBoxes = append(rec.State.TextBoxes[:i], rec.State.TextBoxes[i+1:]...)
		if s.ws.SelectedTextBoxID == id {
			s.ws.SelectedTextBoxID = ""
		}
		s.observe()
		return nil
	}
	return fmt.Errorf("文本框 %s 不存在", id)
}

// SelectTextBox 选中当前画布上的文本框；id 为空表示取消选中。
func (s *Session) SelectTextBox(id string) error {
	if id != "" {
		if _, err := s.findTextBox(id); err != nil {
			return err
		}
	}
	s.ws.SelectedTextBoxID = id
	s.observe()
	return nil
}

// SelectedTextBox 返回当前选中的文本框。
func (s *Session) SelectedTextBox() (design.TextBoxModel, bool) {
	if s.ws.SelectedTextBoxID == "" {
		return design.TextBoxModel{}, false
	}
	box, err := s.findTextBox(s.ws.SelectedTextBoxID)
	if err != nil {
		return design.TextBoxModel{}, false
	}
	return box.Clone(), true
}

func (s *Session) findTextBox(id string) (*design.TextBoxModel, error) {
	rec := s.currentCanvas()
	for i := range rec.State.TextBoxes {
		if rec.State.TextBoxes[i].ID == id {
			return &rec.State.TextBoxes[i], nil
		}
	}
	return nil, fmt.Errorf("文本框 %s 不存在", id)
}

// PatchTextBox 对文本框应用局部修改，非法字段由 design 层钳制或忽略。
func (s *Session) PatchTextBox(id string, patch design.TextBoxPatch) error {
	box, err := s.findTextBox(id)
	if err != nil {
		return err
	}
	*box = design.ApplyTextBoxPatch(*box, patch)
	s.observe()
	return nil
}

// MoveTextBox 平移文本框。拖拽的每个增量都直接应用，合并由历史管理器负责。
func (s *Session) MoveTextBox(id string, dx, dy float64) error {
	box, err := s.findTextBox(id)
	if err != nil {
		return err
	}
	x, y := box.X+dx, box.Y+dy
	return s.PatchTextBox(id, design.TextBoxPatch{X: &x, Y: &y})
}

// SetText 替换文本框内容。
func (s *Session) SetText(id, text string) error {
	return s.PatchTextBox(id, design.TextBoxPatch{Text: &text})
}

// --- 背景 / 手机框 / 媒体 ---

// SetBackground 设置当前画布背景，颜色经净化回落。
func (s *Session) SetBackground(bg design.Background) {
	rec := s.currentCanvas()
	if bg.Mode != design.BackgroundSolid && bg.Mode != design.BackgroundGradient {
		bg.Mode = design.BackgroundSolid
	}
	bg.From = design.SanitizeColor(bg.From, design.DefaultBackgroundFrom)
	bg.To = design.SanitizeColor(bg.To, design.DefaultBackgroundTo)
	rec.State.Background = bg
	s.observe()
}

// MovePhone 平移手机框。偏移不钳制：允许出血。
func (s *Session) MovePhone(dx, dy float64) {
	rec := s.currentCanvas()
	rec.State.PhoneOffset.X += dx
	rec.State.PhoneOffset.Y += dy
	s.observe()
}

// SetPhoneScale 设置手机框缩放，越界值钳制。
func (s *Session) SetPhoneScale(scale float64) {
	rec := s.currentCanvas()
	rec.State.PhoneScale = design.ClampPhoneScale(scale)
	s.observe()
}

// SetMedia 设置屏幕媒体；kind 非法或名称缺失时回落为 none。
func (s *Session) SetMedia(kind design.MediaKind, name string) {
	rec := s.currentCanvas()
	if (kind != design.MediaImage && kind != design.MediaVideo) || name == "" {
		rec.State.Media = design.MediaRef{Kind: design.MediaNone}
	} else {
		rec.State.Media = design.MediaRef{Kind: kind, Name: name}
	}
	s.observe()
}

// --- 历史 ---

// Undo 撤销一步；无历史时返回 false。
func (s *Session) Undo() bool { return s.hist.Undo() }

// Redo 重做一步；无前向历史时返回 false。
func (s *Session) Redo() bool { return s.hist.Redo() }

// CanUndo 报告是否可撤销。
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo 报告是否可重做。
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Flush 立即提交待合并的变更，保存前调用。
func (s *Session) Flush() { s.hist.Flush() }

// HistoryDepth 返回 (past, future) 深度。
func (s *Session) HistoryDepth() (int, int) { return s.hist.Depth() }

// --- 组合 ---

// ComposeCurrent 重算当前画布的组合结果。
func (s *Session) ComposeCurrent() *layout.CanvasMeta {
	return layout.BuildCanvasMeta(*s.currentCanvas(), layout.BuildOptions{Faces: s.faces})
}

// ComposeAll 重算当前项目全部画布的组合结果。
func (s *Session) ComposeAll() []*layout.CanvasMeta {
	return layout.BuildProjectMetas(s.currentProject().State, layout.BuildOptions{Faces: s.faces})
}
