package layout

import "github.com/ByLCY/vitrine/design"

// 手机框几何常量。宽高比例来自参考预设 886x1920：
// 机身宽 = 画布宽 * 666/886，机身高 = 画布高 * 1400/1920，其余预设按同一比例缩放。
// 屏幕内缩、刘海尺寸与圆角半径均为框内单位，随 scale 等比放大。
const (
	phoneWidthRatio  = 666.0 / 886.0
	phoneHeightRatio = 1400.0 / 1920.0
	phoneTopRatio    = 0.16

	screenInset  = 22.0
	bodyRadius   = 104.0
	screenRadius = 76.0

	notchWidth  = 236.0
	notchHeight = 64.0
	notchTopGap = 20.0
)

// BasePhoneRect 计算未平移时的手机机身矩形：水平居中，顶部锚定在画布高度的固定比例处。
// 纯函数，任何有限输入都有结果；scale 使宽高非正时同样原样返回，由调用方负责钳制。
func BasePhoneRect(canvasW, canvasH, scale float64) Rect {
	w := canvasW * phoneWidthRatio * scale
	h := canvasH * phoneHeightRatio * scale
	return Rect{
		X:      (canvasW - w) / 2,
		Y:      canvasH * phoneTopRatio,
		Width:  w,
		Height: h,
	}
}

// ResolvePhone 在基准矩形上叠加偏移，并派生屏幕、刘海与圆角。
// 偏移不做任何钳制：手机框允许部分或完全超出画布（出血设计）。
func ResolvePhone(canvasW, canvasH float64, offset design.Offset, scale float64) PhoneMeta {
	body := BasePhoneRect(canvasW, canvasH, scale)
	body.X += offset.X
	body.Y += offset.Y

	screen := body.Inset(screenInset * scale)
	notch := Rect{
		X:      screen.X + (screen.Width-notchWidth*scale)/2,
		Y:      screen.Y + notchTopGap*scale,
		Width:  notchWidth * scale,
		Height: notchHeight * scale,
	}
	return PhoneMeta{
		Body:         body,
		Screen:       screen,
		Notch:        notch,
		BodyRadius:   bodyRadius * scale,
		ScreenRadius: screenRadius * scale,
	}
}
