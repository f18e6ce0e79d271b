package design

import (
	"encoding/json"
	"testing"

	"github.com/ByLCY/vitrine/dsl"
)

const sceneFixture = `
project "${app.name|预览}" {
  canvas "首屏" preset "1242x2688" {
    background gradient #f2f4f7 #dbeafe angle 45
    phone offset -20 30 scale 9
    media image "${shots[0]|home.png}"

    text "${app.tagline|默认标语}" {
      x: 80
      y: 160
      width: 99999
      size: 64
      font: display
      color: #111827
    }
  }
}
`

func sceneDocument(t *testing.T) *dsl.Document {
	t.Helper()
	doc, err := dsl.ParseString(sceneFixture)
	if err != nil {
		t.Fatalf("场景解析失败: %v", err)
	}
	return doc
}

// TestFromDocument 验证场景 AST 转换出的项目满足与净化路径一致的不变式。
func TestFromDocument(t *testing.T) {
	var data any
	raw := `{"app": {"name": "灵感集", "tagline": "随手记录"}, "shots": ["shot-zh.png"]}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("数据解析失败: %v", err)
	}

	proj := FromDocument(sceneDocument(t), data)
	if proj.Name != "灵感集" {
		t.Fatalf("项目名应从数据插值: %q", proj.Name)
	}
	if len(proj.State.Canvases) != 1 || proj.State.CurrentCanvasID != proj.State.Canvases[0].ID {
		t.Fatalf("画布与当前指针不正确: %+v", proj.State)
	}

	state := proj.State.Canvases[0].State
	if state.CanvasPresetID != "1242x2688" {
		t.Fatalf("预设应透传: %q", state.CanvasPresetID)
	}
	if state.Background.Mode != BackgroundGradient || state.Background.Angle != 45 {
		t.Fatalf("背景设置不正确: %+v", state.Background)
	}
	if state.PhoneOffset.X != -20 || state.PhoneOffset.Y != 30 {
		t.Fatalf("手机偏移不正确: %+v", state.PhoneOffset)
	}
	if state.PhoneScale != MaxPhoneScale {
		t.Fatalf("越界缩放应钳到 %g，实际 %g", MaxPhoneScale, state.PhoneScale)
	}
	if state.Media.Kind != MediaImage || state.Media.Name != "shot-zh.png" {
		t.Fatalf("媒体名应从数据插值: %+v", state.Media)
	}

	if len(state.TextBoxes) != 1 {
		t.Fatalf("文本框数量不正确: %d", len(state.TextBoxes))
	}
	box := state.TextBoxes[0]
	if box.Text != "随手记录" {
		t.Fatalf("文本内容应从数据插值: %q", box.Text)
	}
	if box.X != 80 || box.Y != 160 || box.FontSize != 64 || box.FontKey != "display" {
		t.Fatalf("文本框属性不正确: %+v", box)
	}
	if box.Width != MaxTextBoxWidth {
		t.Fatalf("越界宽度应钳到 %g，实际 %g", MaxTextBoxWidth, box.Width)
	}
	if box.ID == "" {
		t.Fatalf("文本框应补发 id")
	}
}

// TestFromDocumentFallbacks 验证无数据文档时走字面默认值。
func TestFromDocumentFallbacks(t *testing.T) {
	data := map[string]any{} // 空文档，全部路径不可解析
	proj := FromDocument(sceneDocument(t), data)
	if proj.Name != "预览" {
		t.Fatalf("项目名应使用字面默认值: %q", proj.Name)
	}
	state := proj.State.Canvases[0].State
	if state.Media.Name != "home.png" {
		t.Fatalf("媒体名应使用字面默认值: %q", state.Media.Name)
	}
	if state.TextBoxes[0].Text != "默认标语" {
		t.Fatalf("文本应使用字面默认值: %q", state.TextBoxes[0].Text)
	}
}

// TestFromDocumentEmpty 验证没有画布的场景合成一张默认画布。
func TestFromDocumentEmpty(t *testing.T) {
	doc, err := dsl.ParseString(`project "空" { }`)
	if err != nil {
		t.Fatalf("场景解析失败: %v", err)
	}
	proj := FromDocument(doc, nil)
	if len(proj.State.Canvases) != 1 {
		t.Fatalf("空场景应合成一张默认画布，实际 %d", len(proj.State.Canvases))
	}
	if proj.State.CurrentCanvasID != proj.State.Canvases[0].ID {
		t.Fatalf("当前画布应指向合成的画布")
	}
}
