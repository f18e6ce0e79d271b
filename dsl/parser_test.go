package dsl_test

import (
	"testing"

	"github.com/ByLCY/vitrine/dsl"
)

const sampleScene = `
project "发布预览" {
  canvas "首屏" preset "886x1920" {
    background gradient #f2f4f7 #dbeafe angle 26
    phone offset 0 40 scale 1.1
    media image "home.png"

    text "随手记录每一个灵感" {
      x: 80
      y: 160
      width: 640
      size: 64
      font: display
      color: #111827
    }

    // 没有属性块的文本框走默认值
    text "${tagline|副标题}"
  }

  canvas "第二屏" {
    background solid #ffffff
    media none
  }
}
`

func TestParseScene(t *testing.T) {
	doc, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	if string(doc.Name) != "发布预览" {
		t.Fatalf("项目名解析错误: %q", doc.Name)
	}
	if len(doc.Canvases) != 2 {
		t.Fatalf("应解析出 2 张画布，实际 %d", len(doc.Canvases))
	}

	first := doc.Canvases[0]
	if string(first.Name) != "首屏" {
		t.Fatalf("画布名解析错误: %q", first.Name)
	}
	if first.Preset == nil || string(*first.Preset) != "886x1920" {
		t.Fatalf("预设解析错误: %+v", first.Preset)
	}
	if len(first.Stmts) != 5 {
		t.Fatalf("首屏应有 5 条语句，实际 %d", len(first.Stmts))
	}

	bg := first.Stmts[0].Background
	if bg == nil || bg.Mode != "gradient" {
		t.Fatalf("首条语句应为渐变背景: %+v", first.Stmts[0])
	}
	if bg.From != "#f2f4f7" || bg.To == nil || *bg.To != "#dbeafe" {
		t.Fatalf("渐变端点解析错误: %+v", bg)
	}
	if bg.Angle == nil || *bg.Angle != 26 {
		t.Fatalf("渐变角度解析错误: %+v", bg.Angle)
	}

	phone := first.Stmts[1].Phone
	if phone == nil || phone.OffsetX == nil || phone.OffsetY == nil {
		t.Fatalf("手机框语句解析错误: %+v", first.Stmts[1])
	}
	if *phone.OffsetX != 0 || *phone.OffsetY != 40 {
		t.Fatalf("手机偏移解析错误: %g %g", *phone.OffsetX, *phone.OffsetY)
	}
	if phone.Scale == nil || *phone.Scale != 1.1 {
		t.Fatalf("手机缩放解析错误: %+v", phone.Scale)
	}

	media := first.Stmts[2].Media
	if media == nil || media.Kind != "image" || media.Name == nil || string(*media.Name) != "home.png" {
		t.Fatalf("媒体语句解析错误: %+v", media)
	}

	text := first.Stmts[3].Text
	if text == nil || string(text.Content) != "随手记录每一个灵感" {
		t.Fatalf("文本语句解析错误: %+v", first.Stmts[3])
	}
	if len(text.Attrs) != 6 {
		t.Fatalf("文本属性应有 6 条，实际 %d", len(text.Attrs))
	}
	attrs := map[string]*dsl.TextAttr{}
	for _, a := range text.Attrs {
		attrs[a.Key] = a
	}
	if a := attrs["x"]; a == nil || a.Number == nil || *a.Number != 80 {
		t.Fatalf("x 属性解析错误: %+v", a)
	}
	if a := attrs["font"]; a == nil || a.Ident == nil || *a.Ident != "display" {
		t.Fatalf("font 属性解析错误: %+v", a)
	}
	if a := attrs["color"]; a == nil || a.Color == nil || *a.Color != "#111827" {
		t.Fatalf("color 属性解析错误: %+v", a)
	}

	bare := first.Stmts[4].Text
	if bare == nil || len(bare.Attrs) != 0 {
		t.Fatalf("无属性块的文本语句应解析为空属性: %+v", bare)
	}
	if string(bare.Content) != "${tagline|副标题}" {
		t.Fatalf("插值占位应原样保留给绑定阶段: %q", bare.Content)
	}

	second := doc.Canvases[1]
	if second.Preset != nil {
		t.Fatalf("省略 preset 时应为 nil: %+v", second.Preset)
	}
	if m := second.Stmts[1].Media; m == nil || m.Kind != "none" || m.Name != nil {
		t.Fatalf("media none 解析错误: %+v", second.Stmts[1])
	}
}

// TestParseColorWidths 验证 3/6/8 位十六进制颜色都能作为完整 token 解析，
// 长形式不会被截断成短形式加残余字符。
func TestParseColorWidths(t *testing.T) {
	cases := []string{"#fff", "#ffffff", "#f2f4f7", "#aabbccdd", "#112233"}
	for _, color := range cases {
		input := `project "p" { canvas "c" { background solid ` + color + ` } }`
		doc, err := dsl.ParseString(input)
		if err != nil {
			t.Fatalf("颜色 %s 解析失败: %v", color, err)
		}
		bg := doc.Canvases[0].Stmts[0].Background
		if bg == nil || bg.From != color {
			t.Fatalf("颜色 %s 应完整捕获，实际 %+v", color, bg)
		}
	}
}

func TestParseSceneErrors(t *testing.T) {
	cases := []string{
		``,
		`project { }`,                             // 缺项目名
		`project "p" { canvas { } }`,              // 缺画布名
		`project "p" { canvas "c" { phone offset 1 } }`, // offset 只有一个分量
		`project "p" { canvas "c" { background plaid #fff } }`,
	}
	for _, input := range cases {
		if _, err := dsl.ParseString(input); err == nil {
			t.Fatalf("非法输入应解析失败: %q", input)
		}
	}
}
