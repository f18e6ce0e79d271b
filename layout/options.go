package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer 度量一段候选行在某个字体面下的像素宽度。
type Measurer interface {
	TextWidth(s string) float64
}

// MeasureFunc 让普通函数充当 Measurer。
type MeasureFunc func(s string) float64

func (f MeasureFunc) TextWidth(s string) float64 { return f(s) }

// FaceSource 负责把（字体键, 字号）解析为对应字体面的 Measurer。
// 渲染器实现该接口；测试注入固定宽度实现以保证折行结果可复现。
type FaceSource interface {
	FaceMeasurer(fontKey string, fontSize float64) (Measurer, error)
}

// BuildOptions 配置组合阶段所需的依赖。
type BuildOptions struct {
	Faces FaceSource
}

// measurer 解析指定字体面的度量能力。宿主没有可用的度量方式时，
// 回落到按字符数估算的近似实现——宁可折行不精确，也不让布局失败。
func (o BuildOptions) measurer(fontKey string, fontSize float64) Measurer {
	if o.Faces != nil {
		if m, err := o.Faces.FaceMeasurer(fontKey, fontSize); err == nil && m != nil {
			return m
		}
	}
	return approxMeasurer(fontSize)
}

// approxMeasurer 按平均字符宽度估算文本宽度。
func approxMeasurer(fontSize float64) Measurer {
	if fontSize <= 0 {
		fontSize = 12
	}
	perRune := fontSize * 0.55
	return MeasureFunc(func(s string) float64 {
		widest := 0
		for _, line := range strings.Split(s, "\n") {
			if n := utf8.RuneCountInString(line); n > widest {
				widest = n
			}
		}
		return perRune * float64(widest)
	})
}
