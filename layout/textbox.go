package layout

import (
	"strings"

	"github.com/ByLCY/vitrine/design"
)

// lineHeightFactor 是行高相对字号的固定倍率。
const lineHeightFactor = 1.2

// BuildTextBoxMeta 计算文本框的完整渲染元数据：解析字体、钳制宽度与字号、
// 折行并统计行数分类。该函数是全函数——任何输入都产出可用的元数据。
func BuildTextBoxMeta(box design.TextBoxModel, opts BuildOptions) TextBoxMeta {
	fontKey := design.NormalizeFontKey(box.FontKey)
	fontSize := design.ClampFontSize(box.FontSize)
	width := design.ClampTextBoxWidth(box.Width)
	lineHeight := fontSize * lineHeightFactor

	measure := opts.measurer(fontKey, fontSize)
	wrapped := Wrap(box.Text, width, measure)

	lines := make([]TextLine, len(wrapped))
	for i, content := range wrapped {
		lines[i] = TextLine{Content: content, Width: measure.TextWidth(content)}
	}

	paragraphs := strings.Count(box.Text, "\n") + 1
	height := lineHeight * float64(len(lines))
	if height < lineHeight {
		height = lineHeight
	}

	return TextBoxMeta{
		ID:                 box.ID,
		FontKey:            fontKey,
		FontFamily:         FontFamilyFor(fontKey),
		FontSize:           fontSize,
		LineHeight:         lineHeight,
		Color:              design.SanitizeColor(box.Color, design.DefaultTextBoxColor),
		Lines:              lines,
		Class:              classifyLines(len(lines)),
		HasManualLineBreak: strings.Contains(box.Text, "\n"),
		WrappedByWidth:     len(lines) > paragraphs,
		Bounds:             Rect{X: box.X, Y: box.Y, Width: width, Height: height},
	}
}

func classifyLines(n int) LineClass {
	switch {
	case n <= 1:
		return LineClassSingle
	case n == 2:
		return LineClassTwo
	default:
		return LineClassThreeOrMore
	}
}
