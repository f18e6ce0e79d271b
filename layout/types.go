package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vitrine/design"
)

// 该文件定义布局结果类型，供组合、渲染与调试 JSON 共用。
// 所有坐标与尺寸以画布像素为单位，原点在左上角。

// Rect 是轴对齐矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Inset 返回四边各向内收缩 d 后的矩形；d 过大时宽高可为负，由调用方自行处理。
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ShapeKind 标识组合结果中形状的类别。
type ShapeKind string

const (
	ShapeBackground ShapeKind = "background"
	ShapeTextBox    ShapeKind = "text-box"
	ShapePhoneFrame ShapeKind = "phone-frame"
)

// Shape 是按 z 序排列的可绘制形状条目。RefID 指向其来源对象
//（text-box 指向文本框 id，background 与 phone-frame 指向画布 id）。
type Shape struct {
	Kind   ShapeKind `json:"kind"`
	RefID  string    `json:"refId"`
	ZIndex int       `json:"zIndex"`
	Bounds Rect      `json:"bounds"`
}

// PhoneMeta 保存手机框的全部派生几何：机身、屏幕、刘海与圆角半径。
type PhoneMeta struct {
	Body         Rect    `json:"body"`
	Screen       Rect    `json:"screen"`
	Notch        Rect    `json:"notch"`
	BodyRadius   float64 `json:"bodyRadius"`
	ScreenRadius float64 `json:"screenRadius"`
}

// LineClass 是按折行后行数的分类，供自动排版等下游动作使用。
type LineClass string

const (
	LineClassSingle      LineClass = "single-line"
	LineClassTwo         LineClass = "two-lines"
	LineClassThreeOrMore LineClass = "three-or-more-lines"
)

// TextLine 表示排版后的一行文本与其测量宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// TextBoxMeta 是文本框的完整渲染元数据。
// HasManualLineBreak 与 WrappedByWidth 区分用户显式换行与因宽度不足产生的折行。
type TextBoxMeta struct {
	ID                 string     `json:"id"`
	FontKey            string     `json:"fontKey"`
	FontFamily         string     `json:"fontFamily"`
	FontSize           float64    `json:"fontSize"`
	LineHeight         float64    `json:"lineHeight"`
	Color              string     `json:"color"`
	Lines              []TextLine `json:"lines"`
	Class              LineClass  `json:"class"`
	HasManualLineBreak bool       `json:"hasManualLineBreak"`
	WrappedByWidth     bool       `json:"wrappedByWidth"`
	Bounds             Rect       `json:"bounds"`
}

// CanvasMeta 是一张画布的组合结果：画布尺寸、手机几何、全部文本框元数据
// 与按 z 序展开的形状列表。它完全由 CanvasDesignState 重算得到，不作为持久化真相。
type CanvasMeta struct {
	CanvasID   string             `json:"canvasId"`
	PresetID   string             `json:"presetId"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Background design.Background  `json:"background"`
	Media      design.MediaRef    `json:"media"`
	Phone      PhoneMeta          `json:"phone"`
	TextBoxes  []TextBoxMeta      `json:"textBoxes"`
	Shapes     []Shape            `json:"shapes"`
}

// fontFamilies 将字体键映射到渲染器可识别的字体族名。
var fontFamilies = map[string]string{
	"display":  "Inter Bold",
	"headline": "Inter SemiBold",
	"body":     "Inter Regular",
	"caption":  "Inter Medium",
}

// FontFamilyFor 将字体键解析为字体族名，未知键回落到字体键集合的第一项。
func FontFamilyFor(key string) string {
	if fam, ok := fontFamilies[key]; ok {
		return fam
	}
	return fontFamilies[design.FontKeys[0]]
}

// ParseColor 解析 #rgb/#rrggbb/#rrggbbaa 颜色（alpha 被忽略）。
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		r := strings.Repeat(string(value[0]), 2)
		g := strings.Repeat(string(value[1]), 2)
		b := strings.Repeat(string(value[2]), 2)
		return Color{R: mustHex(r), G: mustHex(g), B: mustHex(b)}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v := 0
	for _, r := range s {
		v *= 16
		switch {
		case r >= '0' && r <= '9':
			v += int(r - '0')
		case r >= 'a' && r <= 'f':
			v += int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v += int(r-'A') + 10
		}
	}
	return v
}
