package design

import (
	"strings"

	"github.com/google/uuid"
)

// 该文件实现对不可信输入（反序列化后的 JSON、部分应用的导入）的净化。
// 约定：净化函数是全函数，永不 panic、永不返回错误；缺失或非法字段一律回落到命名默认值。
// 幂等性：Sanitize(Sanitize(x)) == Sanitize(x)。

// SanitizeProject 将任意输入净化为合法的 ProjectDesignState。
// 保证：Canvases 非空（必要时合成一张默认画布），CurrentCanvasID 指向其中一员。
func SanitizeProject(raw any) ProjectDesignState {
	obj := asMap(raw)
	var canvases []ProjectCanvasRecord
	for _, entry := range asSlice(obj["canvases"]) {
		rec, ok := sanitizeCanvasRecord(entry)
		if !ok {
			continue // 非对象条目静默过滤
		}
		canvases = append(canvases, rec)
	}
	if len(canvases) == 0 {
		canvases = []ProjectCanvasRecord{NewCanvas("画布 1")}
	}

	current := asString(obj["currentCanvasId"], "")
	if !hasCanvas(canvases, current) {
		current = canvases[0].ID
	}
	return ProjectDesignState{Canvases: canvases, CurrentCanvasID: current}
}

// SanitizeCanvasState 将任意输入净化为合法的 CanvasDesignState。
func SanitizeCanvasState(raw any) CanvasDesignState {
	obj := asMap(raw)

	preset := asString(obj["canvasPresetId"], DefaultCanvasPresetID)
	preset = PresetByID(preset).ID // 未知预设回落到默认预设

	offObj := asMap(obj["phoneOffset"])
	offset := Offset{
		X: asFinite(offObj["x"], 0),
		Y: asFinite(offObj["y"], 0),
	}

	var boxes []TextBoxModel
	for _, entry := range asSlice(obj["textBoxes"]) {
		box, ok := SanitizeTextBox(entry)
		if !ok {
			continue
		}
		boxes = append(boxes, box)
	}

	return CanvasDesignState{
		CanvasPresetID: preset,
		Background:     sanitizeBackground(obj["background"]),
		PhoneOffset:    offset,
		PhoneScale:     ClampPhoneScale(asFinite(obj["phoneScale"], DefaultPhoneScale)),
		TextBoxes:      boxes,
		Media:          sanitizeMedia(obj["media"]),
	}
}

// SanitizeTextBox 净化单个文本框条目；输入不是对象时返回 false，由调用方过滤。
func SanitizeTextBox(raw any) (TextBoxModel, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return TextBoxModel{}, false
	}
	id := asString(obj["id"], "")
	if id == "" {
		id = uuid.NewString()
	}
	return TextBoxModel{
		ID:       id,
		Text:     asString(obj["text"], ""),
		X:        asFinite(obj["x"], 0),
		Y:        asFinite(obj["y"], 0),
		Width:    ClampTextBoxWidth(asFinite(obj["width"], DefaultTextBoxWidth)),
		FontKey:  NormalizeFontKey(asString(obj["fontKey"], FontKeys[0])),
		FontSize: ClampFontSize(asFinite(obj["fontSize"], DefaultTextBoxFontSize)),
		Color:    SanitizeColor(asString(obj["color"], DefaultTextBoxColor), DefaultTextBoxColor),
	}, true
}

// SanitizeWorkspace 净化整个工作区快照，保证所有焦点 id 可解析。
func SanitizeWorkspace(raw any) WorkspaceState {
	obj := asMap(raw)
	var projects []ProjectRecord
	for _, entry := range asSlice(obj["projects"]) {
		pObj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := asString(pObj["id"], "")
		if id == "" {
			id = uuid.NewString()
		}
		projects = append(projects, ProjectRecord{
			ID:    id,
			Name:  asString(pObj["name"], "未命名项目"),
			State: SanitizeProject(pObj["state"]),
		})
	}
	ws := WorkspaceState{
		Projects:          projects,
		CurrentProjectID:  asString(obj["currentProjectId"], ""),
		CurrentCanvasID:   asString(obj["currentCanvasId"], ""),
		SelectedTextBoxID: asString(obj["selectedTextBoxId"], ""),
	}
	ws.Normalize()
	return ws
}

func sanitizeCanvasRecord(raw any) (ProjectCanvasRecord, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ProjectCanvasRecord{}, false
	}
	id := asString(obj["id"], "")
	if id == "" {
		id = uuid.NewString()
	}
	return ProjectCanvasRecord{
		ID:               id,
		Name:             asString(obj["name"], "画布"),
		State:            SanitizeCanvasState(obj["state"]),
		ThumbnailDataURL: asString(obj["thumbnailDataUrl"], ""),
	}, true
}

func sanitizeBackground(raw any) Background {
	obj := asMap(raw)
	mode := BackgroundMode(asString(obj["mode"], string(BackgroundSolid)))
	if mode != BackgroundSolid && mode != BackgroundGradient {
		mode = BackgroundSolid
	}
	return Background{
		Mode:  mode,
		From:  SanitizeColor(asString(obj["from"], DefaultBackgroundFrom), DefaultBackgroundFrom),
		To:    SanitizeColor(asString(obj["to"], DefaultBackgroundTo), DefaultBackgroundTo),
		Angle: asFinite(obj["angle"], DefaultGradientAngle),
	}
}

func sanitizeMedia(raw any) MediaRef {
	obj := asMap(raw)
	kind := MediaKind(asString(obj["kind"], string(MediaNone)))
	if kind != MediaImage && kind != MediaVideo && kind != MediaNone {
		kind = MediaNone
	}
	name := asString(obj["name"], "")
	if kind == MediaNone {
		name = ""
	}
	if kind != MediaNone && name == "" {
		kind = MediaNone
	}
	return MediaRef{Kind: kind, Name: name}
}

// SanitizeColor 校验 #rgb/#rrggbb 形式的颜色字符串，非法时返回 fallback。
func SanitizeColor(value, fallback string) string {
	v := strings.TrimSpace(strings.ToLower(value))
	if !strings.HasPrefix(v, "#") {
		return fallback
	}
	hex := v[1:]
	if len(hex) != 3 && len(hex) != 6 && len(hex) != 8 {
		return fallback
	}
	for _, r := range hex {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fallback
		}
	}
	return v
}

// Normalize 就地修复工作区的焦点引用：当前项目、当前画布、选中文本框。
// 任何悬空 id 都回落到第一个可用对象或清空，绝不失败——撤销/重做应用快照时依赖该语义。
func (ws *WorkspaceState) Normalize() {
	if len(ws.Projects) == 0 {
		ws.CurrentProjectID = ""
		ws.CurrentCanvasID = ""
		ws.SelectedTextBoxID = ""
		return
	}
	proj := ws.projectIndex(ws.CurrentProjectID)
	if proj < 0 {
		proj = 0
		ws.CurrentProjectID = ws.Projects[0].ID
	}
	state := &ws.Projects[proj].State
	if !hasCanvas(state.Canvases, state.CurrentCanvasID) {
		state.CurrentCanvasID = state.Canvases[0].ID
	}
	if !hasCanvas(state.Canvases, ws.CurrentCanvasID) {
		ws.CurrentCanvasID = state.CurrentCanvasID
	}
	if ws.SelectedTextBoxID != "" && !hasTextBox(state.Canvases, ws.CurrentCanvasID, ws.SelectedTextBoxID) {
		ws.SelectedTextBoxID = ""
	}
}

func (ws *WorkspaceState) projectIndex(id string) int {
	for i := range ws.Projects {
		if ws.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func hasCanvas(canvases []ProjectCanvasRecord, id string) bool {
	for i := range canvases {
		if canvases[i].ID == id {
			return true
		}
	}
	return false
}

func hasTextBox(canvases []ProjectCanvasRecord, canvasID, boxID string) bool {
	for i := range canvases {
		if canvases[i].ID != canvasID {
			continue
		}
		for j := range canvases[i].State.TextBoxes {
			if canvases[i].State.TextBoxes[j].ID == boxID {
				return true
			}
		}
	}
	return false
}

// --- 鸭子类型 JSON 取值辅助 ---

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func asString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// asFinite 接受 JSON 数字（float64）或可转换的整数，其余类型与非有限值回落。
func asFinite(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		if isFinite(n) {
			return n
		}
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return fallback
}
