package canvasrenderer

import (
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/vitrine/layout"
)

func TestToPt(t *testing.T) {
	// 72pt = 1 英寸 = 25.4 个画布单位
	if got := toPt(25.4); math.Abs(got-72) > 1e-9 {
		t.Fatalf("25.4 单位应折算为 72pt，实际 %g", got)
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor("#112233")
	if c.R != 0x11 || c.G != 0x22 || c.B != 0x33 || c.A != 255 {
		t.Fatalf("颜色解析错误: %+v", c)
	}
	// 非法颜色回落到默认背景色而不是黑色
	fallback := hexColor("oops")
	if fallback.R != 242 || fallback.G != 244 || fallback.B != 247 {
		t.Fatalf("非法颜色回落错误: %+v", fallback)
	}
}

func TestRoundedRectClampsRadius(t *testing.T) {
	// 半径超过短边一半时钳到短边一半，路径包围盒保持矩形尺寸
	p := roundedRect(layout.Rect{Width: 100, Height: 40}, 500)
	bounds := p.Bounds()
	if math.Abs(bounds.W()-100) > 1e-6 || math.Abs(bounds.H()-40) > 1e-6 {
		t.Fatalf("圆角矩形包围盒错误: %v", bounds)
	}

	// 非正半径退化为普通矩形
	q := roundedRect(layout.Rect{Width: 10, Height: 10}, 0)
	if math.Abs(q.Bounds().W()-10) > 1e-6 {
		t.Fatalf("零半径应退化为矩形: %v", q.Bounds())
	}
}

func TestRenderPNGNilMeta(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.RenderPNG(nil); err == nil {
		t.Fatalf("空画布元数据应报错")
	}
}

func TestRenderPDFEmpty(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.RenderPDF(nil); err == nil {
		t.Fatalf("没有画布时渲染 PDF 应报错")
	}
}

func TestLoadMediaErrors(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.loadMedia(""); err == nil {
		t.Fatalf("空媒体名应报错")
	}
	if _, err := r.loadMedia("shot.png"); err == nil || !strings.Contains(err.Error(), "资源目录") {
		t.Fatalf("未指定资源目录时应报错，实际 %v", err)
	}

	missing := NewRenderer(t.TempDir())
	if _, err := missing.loadMedia("ghost.png"); err == nil {
		t.Fatalf("缺失媒体文件应报错")
	}
}
