package design

import "math"

// 该文件定义画布设计态的全部可持久化模型：项目、画布、文本框、媒体与背景。
// 所有派生数据（手机框几何、折行结果、形状列表）不在此处出现，统一由 layout 包按需重算。

// MediaKind 标识画布中手机屏幕展示的媒体类型。
type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaRef 描述手机屏幕内展示的媒体，Name 是资源目录下的相对文件名。
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	Name string    `json:"name,omitempty"`
}

// BackgroundMode 标识背景填充模式。
type BackgroundMode string

const (
	BackgroundSolid    BackgroundMode = "solid"
	BackgroundGradient BackgroundMode = "gradient"
)

// Background 描述画布背景：solid 模式仅使用 From，gradient 模式按 Angle（度）在 From 与 To 之间渐变。
type Background struct {
	Mode  BackgroundMode `json:"mode"`
	From  string         `json:"from"`
	To    string         `json:"to"`
	Angle float64        `json:"angle"`
}

// Offset 是手机框相对基准位置的平移量（像素）。允许为负或超出画布，属于刻意的出血设计。
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextBoxModel 表示一个可拖拽的文本框。Width/FontSize 超出允许区间时会被钳制而不是拒绝。
type TextBoxModel struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	FontKey  string  `json:"fontKey"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
}

// CanvasDesignState 是一页可编辑的"幻灯片"：预设尺寸、背景、手机框参数与按 z 序排列的文本框。
// TextBoxes 的顺序即绘制顺序（靠后的在上层）。
type CanvasDesignState struct {
	CanvasPresetID string         `json:"canvasPresetId"`
	Background     Background     `json:"background"`
	PhoneOffset    Offset         `json:"phoneOffset"`
	PhoneScale     float64        `json:"phoneScale"`
	TextBoxes      []TextBoxModel `json:"textBoxes"`
	Media          MediaRef       `json:"media"`
}

// ProjectCanvasRecord 将画布状态与其元数据（名称、缩略图）打包为项目内的一条记录。
type ProjectCanvasRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	State            CanvasDesignState `json:"state"`
	ThumbnailDataURL string            `json:"thumbnailDataUrl,omitempty"`
}

// ProjectDesignState 聚合一个项目的全部画布。不变式：Canvases 非空，
// CurrentCanvasID 必定指向其中一员（sanitize 负责兜底到第一张画布）。
type ProjectDesignState struct {
	Canvases        []ProjectCanvasRecord `json:"canvases"`
	CurrentCanvasID string                `json:"currentCanvasId"`
}

// ProjectRecord 是工作区内的一个项目条目。
type ProjectRecord struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	State ProjectDesignState `json:"state"`
}

// WorkspaceState 是历史快照的单位：全部项目加当前编辑焦点。
// SelectedTextBoxID 之外的纯 UI 光标状态不进入快照。
type WorkspaceState struct {
	Projects          []ProjectRecord `json:"projects"`
	CurrentProjectID  string          `json:"currentProjectId"`
	CurrentCanvasID   string          `json:"currentCanvasId"`
	SelectedTextBoxID string          `json:"selectedTextBoxId,omitempty"`
}

// CanvasPreset 是一组固定的画布像素尺寸，整个设计按该尺寸渲染。
type CanvasPreset struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvasPresetID 为 App Store 竖版 886x1920 预设，未知预设一律回落到它。
const DefaultCanvasPresetID = "886x1920"

// CanvasPresets 按推荐顺序列出全部可用预设。
var CanvasPresets = []CanvasPreset{
	{ID: "886x1920", Width: 886, Height: 1920},
	{ID: "1242x2688", Width: 1242, Height: 2688},
	{ID: "1290x2796", Width: 1290, Height: 2796},
	{ID: "2048x2732", Width: 2048, Height: 2732},
}

// PresetByID 返回指定预设；未知 id 返回默认预设。
func PresetByID(id string) CanvasPreset {
	for _, p := range CanvasPresets {
		if p.ID == id {
			return p
		}
	}
	return PresetByID(DefaultCanvasPresetID)
}

// FontKeys 是文本框允许引用的字体键集合，顺序即回落优先级（未知键回落到第一项）。
var FontKeys = []string{"display", "headline", "body", "caption"}

// IsFontKey 判断 key 是否属于允许的字体键集合。
func IsFontKey(key string) bool {
	for _, k := range FontKeys {
		if k == key {
			return true
		}
	}
	return false
}

// 文本框与手机框参数的钳制区间。
const (
	MinTextBoxWidth = 120.0
	MaxTextBoxWidth = 1200.0
	MinFontSize     = 18.0
	MaxFontSize     = 160.0
	MinPhoneScale   = 0.5
	MaxPhoneScale   = 1.8
)

// 默认值表：所有 sanitize 回落都引用这里的命名常量，不允许散落的魔法值。
const (
	DefaultBackgroundFrom  = "#f2f4f7"
	DefaultBackgroundTo    = "#dbeafe"
	DefaultGradientAngle   = 26.0
	DefaultPhoneScale      = 1.0
	DefaultTextBoxColor    = "#111827"
	DefaultTextBoxWidth    = 520.0
	DefaultTextBoxFontSize = 48.0
)

// Clamp 将 v 钳制到 [lo, hi]，满足幂等性：Clamp(Clamp(v)) == Clamp(v)。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampTextBoxWidth 钳制文本框宽度；非正或 NaN 等异常值回落到默认宽度后再钳制。
func ClampTextBoxWidth(w float64) float64 {
	if !isFinite(w) || w <= 0 {
		w = DefaultTextBoxWidth
	}
	return Clamp(w, MinTextBoxWidth, MaxTextBoxWidth)
}

// ClampFontSize 钳制字号，异常值回落到默认字号后再钳制。
func ClampFontSize(s float64) float64 {
	if !isFinite(s) || s <= 0 {
		s = DefaultTextBoxFontSize
	}
	return Clamp(s, MinFontSize, MaxFontSize)
}

// ClampPhoneScale 钳制手机框缩放，保证 scale > 0 的不变式。
func ClampPhoneScale(s float64) float64 {
	if !isFinite(s) || s <= 0 {
		s = DefaultPhoneScale
	}
	return Clamp(s, MinPhoneScale, MaxPhoneScale)
}

// NormalizeFontKey 将未知字体键回落到集合的第一项。
func NormalizeFontKey(key string) string {
	if IsFontKey(key) {
		return key
	}
	return FontKeys[0]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
