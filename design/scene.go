package design

import (
	"github.com/google/uuid"

	"github.com/ByLCY/vitrine/binding"
	"github.com/ByLCY/vitrine/dsl"
)

// FromDocument 将场景 AST 转换为净化后的项目记录。
// data 是可选的 JSON 数据文档，文本内容与名称中的 ${path} 占位符从中取值。
// 场景文件是作者输入而非不可信数据，但取值仍走与 sanitize 相同的钳制与回落，
// 保证转换结果满足与反序列化路径完全一致的不变式。
func FromDocument(doc *dsl.Document, data any) ProjectRecord {
	name := binding.Interpolate(string(doc.Name), data)
	if name == "" {
		name = "未命名项目"
	}
	proj := ProjectRecord{ID: uuid.NewString(), Name: name}

	for i, decl := range doc.Canvases {
		canvasName := binding.Interpolate(string(decl.Name), data)
		if canvasName == "" {
			canvasName = "画布"
		}
		rec := NewCanvas(canvasName)
		if decl.Preset != nil {
			rec.State.CanvasPresetID = PresetByID(string(*decl.Preset)).ID
		}
		for _, st := range decl.Stmts {
			applyCanvasStmt(&rec.State, st, data)
		}
		proj.State.Canvases = append(proj.State.Canvases, rec)
		if i == 0 {
			proj.State.CurrentCanvasID = rec.ID
		}
	}
	if len(proj.State.Canvases) == 0 {
		rec := NewCanvas("画布 1")
		proj.State.Canvases = []ProjectCanvasRecord{rec}
		proj.State.CurrentCanvasID = rec.ID
	}
	return proj
}

func applyCanvasStmt(state *CanvasDesignState, st *dsl.CanvasStmt, data any) {
	switch {
	case st.Background != nil:
		b := st.Background
		mode := BackgroundMode(b.Mode)
		if mode != BackgroundSolid && mode != BackgroundGradient {
			mode = BackgroundSolid
		}
		state.Background.Mode = mode
		state.Background.From = SanitizeColor(b.From, DefaultBackgroundFrom)
		if b.To != nil {
			state.Background.To = SanitizeColor(*b.To, DefaultBackgroundTo)
		}
		if b.Angle != nil && isFinite(*b.Angle) {
			state.Background.Angle = *b.Angle
		}

	case st.Phone != nil:
		p := st.Phone
		if p.OffsetX != nil && p.OffsetY != nil {
			state.PhoneOffset = Offset{X: *p.OffsetX, Y: *p.OffsetY}
		}
		if p.Scale != nil {
			state.PhoneScale = ClampPhoneScale(*p.Scale)
		}

	case st.Media != nil:
		kind := MediaKind(st.Media.Kind)
		name := ""
		if st.Media.Name != nil {
			name = binding.Interpolate(string(*st.Media.Name), data)
		}
		if kind == MediaNone || name == "" {
			state.Media = MediaRef{Kind: MediaNone}
			return
		}
		state.Media = MediaRef{Kind: kind, Name: name}

	case st.Text != nil:
		box := NewTextBox(binding.Interpolate(string(st.Text.Content), data), 0, 0)
		box = ApplyTextBoxPatch(box, patchFromAttrs(st.Text.Attrs, data))
		state.TextBoxes = append(state.TextBoxes, box)
	}
}

// patchFromAttrs 把属性块翻译成 TextBoxPatch，未知键忽略。
func patchFromAttrs(attrs []*dsl.TextAttr, data any) TextBoxPatch {
	var patch TextBoxPatch
	for _, a := range attrs {
		switch a.Key {
		case "x":
			patch.X = a.Number
		case "y":
			patch.Y = a.Number
		case "width":
			patch.Width = a.Number
		case "size":
			patch.FontSize = a.Number
		case "font":
			if a.Ident != nil {
				patch.FontKey = a.Ident
			} else if a.Str != nil {
				key := string(*a.Str)
				patch.FontKey = &key
			}
		case "color":
			if a.Color != nil {
				patch.Color = a.Color
			}
		case "text":
			if a.Str != nil {
				text := binding.Interpolate(string(*a.Str), data)
				patch.Text = &text
			}
		}
	}
	return patch
}
