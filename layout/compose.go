package layout

import "github.com/ByLCY/vitrine/design"

// BuildCanvasMeta 将一张画布的设计态组合为可绘制的元数据：
// 恰好一个 zIndex 0 的 background、每个文本框一个 zIndex = 下标+1 的 text-box
//（保持存储顺序，靠后者在上层），以及 zIndex 最高的 phone-frame。
// 手机框固定压在文本之上是刻意的分层：框是视觉主角，必须遮住探入其下的文本。
// 幂等、无副作用、复杂度 O(文本框数)，可在任何上下文重复调用。
func BuildCanvasMeta(rec design.ProjectCanvasRecord, opts BuildOptions) *CanvasMeta {
	state := rec.State
	preset := design.PresetByID(state.CanvasPresetID)
	scale := design.ClampPhoneScale(state.PhoneScale)
	phone := ResolvePhone(preset.Width, preset.Height, state.PhoneOffset, scale)

	meta := &CanvasMeta{
		CanvasID:   rec.ID,
		PresetID:   preset.ID,
		Width:      preset.Width,
		Height:     preset.Height,
		Background: state.Background,
		Media:      state.Media,
		Phone:      phone,
		TextBoxes:  make([]TextBoxMeta, 0, len(state.TextBoxes)),
	}

	meta.Shapes = append(meta.Shapes, Shape{
		Kind:   ShapeBackground,
		RefID:  rec.ID,
		ZIndex: 0,
		Bounds: Rect{Width: preset.Width, Height: preset.Height},
	})
	for i, box := range state.TextBoxes {
		tb := BuildTextBoxMeta(box, opts)
		meta.TextBoxes = append(meta.TextBoxes, tb)
		meta.Shapes = append(meta.Shapes, Shape{
			Kind:   ShapeTextBox,
			RefID:  tb.ID,
			ZIndex: i + 1,
			Bounds: tb.Bounds,
		})
	}
	meta.Shapes = append(meta.Shapes, Shape{
		Kind:   ShapePhoneFrame,
		RefID:  rec.ID,
		ZIndex: len(state.TextBoxes) + 1,
		Bounds: phone.Body,
	})
	return meta
}

// BuildProjectMetas 按项目内画布顺序组合全部画布。
func BuildProjectMetas(state design.ProjectDesignState, opts BuildOptions) []*CanvasMeta {
	metas := make([]*CanvasMeta, 0, len(state.Canvases))
	for _, rec := range state.Canvases {
		metas = append(metas, BuildCanvasMeta(rec, opts))
	}
	return metas
}
