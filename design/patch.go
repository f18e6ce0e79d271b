package design

// TextBoxPatch 描述对文本框的一次局部修改。指针为 nil 表示该字段未提供；
// 非法取值（越界宽度、未知字体键、坏颜色）在应用时被钳制或忽略，绝不向状态传播。
type TextBoxPatch struct {
	Text     *string
	X        *float64
	Y        *float64
	Width    *float64
	FontKey  *string
	FontSize *float64
	Color    *string
}

// ApplyTextBoxPatch 将补丁中已定义且类型正确的字段应用到 box 的副本并返回。
// 宽度与字号在应用后重新钳制，位置允许任意有限值（出血设计）。
func ApplyTextBoxPatch(box TextBoxModel, patch TextBoxPatch) TextBoxModel {
	out := box.Clone()
	if patch.Text != nil {
		out.Text = *patch.Text
	}
	if patch.X != nil && isFinite(*patch.X) {
		out.X = *patch.X
	}
	if patch.Y != nil && isFinite(*patch.Y) {
		out.Y = *patch.Y
	}
	if patch.Width != nil && isFinite(*patch.Width) {
		out.Width = ClampTextBoxWidth(*patch.Width)
	}
	if patch.FontKey != nil && IsFontKey(*patch.FontKey) {
		out.FontKey = *patch.FontKey
	}
	if patch.FontSize != nil && isFinite(*patch.FontSize) {
		out.FontSize = ClampFontSize(*patch.FontSize)
	}
	if patch.Color != nil {
		if c := SanitizeColor(*patch.Color, ""); c != "" {
			out.Color = c
		}
	}
	return out
}
