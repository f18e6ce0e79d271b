// Package canvasrenderer 基于 github.com/tdewolff/canvas 绘制组合结果，
// 同时向 layout 提供真实字体的宽度度量能力（实现 layout.FaceSource）。
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/vitrine/design"
	"github.com/ByLCY/vitrine/fonts"
	"github.com/ByLCY/vitrine/layout"
	"github.com/ByLCY/vitrine/renderer"
)

// 画布单位约定：1 个画布单位 = 1 像素。canvas 库内部按 mm 计长度、按 pt 计字号，
// 在边界做一次换算：栅格化分辨率固定为 DPMM(1.0)，字号按 unitPerPt 折算。
const unitPerPt = 25.4 / 72.0

func toPt(px float64) float64 { return px / unitPerPt }

// 手机框配色与屏幕占位色。
var (
	phoneBodyColor   = layout.Color{R: 11, G: 15, B: 25}
	screenFillColor  = layout.Color{R: 15, G: 23, B: 42}
	videoBadgeColor  = layout.Color{R: 148, G: 163, B: 184}
)

// fontFiles 将字体键映射到内置字体文件。
var fontFiles = map[string]string{
	"display":  "Inter/static/Inter-Bold.ttf",
	"headline": "Inter/static/Inter-SemiBold.ttf",
	"body":     "Inter/static/Inter-Regular.ttf",
	"caption":  "Inter/static/Inter-Medium.ttf",
}

// Renderer 绘制 layout.CanvasMeta。assetDir 是媒体文件（截图等）的解析根目录。
type Renderer struct {
	assetDir string

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
	fallback     *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.FaceSource = (*Renderer)(nil)
)

// NewRenderer 创建以 assetDir 为媒体根目录的渲染器。
func NewRenderer(assetDir string) *Renderer {
	return &Renderer{
		assetDir:     assetDir,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// RenderPNG 将单张画布渲染为 PNG 字节。
func (r *Renderer) RenderPNG(meta *layout.CanvasMeta) ([]byte, error) {
	if meta == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	c, err := r.renderCanvas(meta)
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF 将项目的全部画布渲染为多页 PDF，每张画布一页。
func (r *Renderer) RenderPDF(metas []*layout.CanvasMeta) ([]byte, error) {
	if len(metas) == 0 {
		return nil, fmt.Errorf("缺少可渲染的画布")
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, metas[0].Width, metas[0].Height, nil)
	for i, meta := range metas {
		if i > 0 {
			writer.NewPage(meta.Width, meta.Height)
		}
		c, err := r.renderCanvas(meta)
		if err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderCanvas(meta *layout.CanvasMeta) (*canvas.Canvas, error) {
	c := canvas.New(meta.Width, meta.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 坐标与布局保持左上角为原点

	// Shapes 已按 zIndex 升序排列，逐个绘制即可得到正确的遮挡关系。
	for _, shape := range meta.Shapes {
		switch shape.Kind {
		case layout.ShapeBackground:
			r.drawBackground(ctx, meta)
		case layout.ShapeTextBox:
			tb, ok := findTextBox(meta, shape.RefID)
			if !ok {
				continue
			}
			if err := r.drawTextBox(ctx, tb); err != nil {
				return nil, err
			}
		case layout.ShapePhoneFrame:
			r.drawPhone(ctx, meta)
		}
	}
	return c, nil
}

func findTextBox(meta *layout.CanvasMeta, id string) (layout.TextBoxMeta, bool) {
	for _, tb := range meta.TextBoxes {
		if tb.ID == id {
			return tb, true
		}
	}
	return layout.TextBoxMeta{}, false
}

func (r *Renderer) drawBackground(ctx *canvas.Context, meta *layout.CanvasMeta) {
	bg := meta.Background
	rect := canvas.Rectangle(meta.Width, meta.Height)
	if bg.Mode != design.BackgroundGradient {
		ctx.SetFillColor(hexColor(bg.From))
		ctx.DrawPath(0, 0, rect)
		return
	}
	// 两色线性渐变，angle 采用 CSS 约定：0 度指向上方，顺时针增加。
	rad := bg.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	cx, cy := meta.Width/2, meta.Height/2
	half := (math.Abs(meta.Width*dx) + math.Abs(meta.Height*dy)) / 2
	grad := canvas.NewLinearGradient(
		canvas.Point{X: cx - dx*half, Y: cy - dy*half},
		canvas.Point{X: cx + dx*half, Y: cy + dy*half},
	)
	grad.Add(0, hexColor(bg.From))
	grad.Add(1, hexColor(bg.To))
	ctx.SetFillGradient(grad)
	ctx.DrawPath(0, 0, rect)
	ctx.SetFillColor(canvas.Black) // 渐变仅作用于背景，随手复位填充
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBoxMeta) error {
	face, err := r.fontFace(tb.FontKey, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	cursorY := tb.Bounds.Y
	for _, line := range tb.Lines {
		if line.Content != "" {
			// 基线 = 行顶部 + 字体上升部
			textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
			ctx.DrawText(tb.Bounds.X, cursorY+metrics.Ascent, textLine)
		}
		cursorY += tb.LineHeight
	}
	return nil
}

func (r *Renderer) drawPhone(ctx *canvas.Context, meta *layout.CanvasMeta) {
	phone := meta.Phone
	if phone.Body.Width <= 0 || phone.Body.Height <= 0 ||
		phone.Screen.Width <= 0 || phone.Screen.Height <= 0 {
		return
	}

	// 屏幕内容：先铺媒体或占位底色，再用"机身减屏幕"的环形路径盖住出界部分，
	// 屏幕圆角处的媒体直角溢出正好落在环内，因此无需裁剪。
	r.drawScreen(ctx, meta)

	outer := roundedRect(phone.Body, phone.BodyRadius)
	inner := roundedRect(phone.Screen, phone.ScreenRadius).
		Translate(phone.Screen.X-phone.Body.X, phone.Screen.Y-phone.Body.Y).
		Reverse()
	ctx.SetFillColor(rgba(phoneBodyColor))
	ctx.DrawPath(phone.Body.X, phone.Body.Y, outer.Append(inner))

	// 刘海：屏幕顶部居中的胶囊形
	notch := phone.Notch
	if notch.Width > 0 && notch.Height > 0 {
		ctx.SetFillColor(rgba(phoneBodyColor))
		ctx.DrawPath(notch.X, notch.Y, canvas.RoundedRectangle(notch.Width, notch.Height, notch.Height/2))
	}
}

func (r *Renderer) drawScreen(ctx *canvas.Context, meta *layout.CanvasMeta) {
	screen := meta.Phone.Screen
	ctx.SetFillColor(rgba(screenFillColor))
	ctx.DrawPath(screen.X, screen.Y, canvas.Rectangle(screen.Width, screen.Height))

	switch meta.Media.Kind {
	case design.MediaImage:
		img, err := r.loadMedia(meta.Media.Name)
		if err != nil {
			return // 媒体缺失或损坏时保留占位底色，渲染永不因此失败
		}
		iw := float64(img.Bounds().Dx())
		if iw <= 0 {
			return
		}
		// 按宽度适配屏幕；分辨率为每画布单位的源像素数
		ctx.DrawImage(screen.X, screen.Y, img, canvas.DPMM(iw/screen.Width))
	case design.MediaVideo:
		// 视频帧捕获在引擎之外，此处绘制占位标记
		radius := math.Min(screen.Width, screen.Height) * 0.08
		cx := screen.X + screen.Width/2
		cy := screen.Y + screen.Height/2
		ctx.SetFillColor(rgba(videoBadgeColor))
		ctx.DrawPath(cx-radius, cy-radius, canvas.Circle(radius))
	}
}

func (r *Renderer) loadMedia(name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("媒体名称为空")
	}
	path := name
	if !filepath.IsAbs(path) {
		if r.assetDir == "" {
			return nil, fmt.Errorf("未指定资源目录，无法解析媒体 %s", name)
		}
		path = filepath.Join(r.assetDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取媒体 %s 失败: %w", name, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码媒体 %s 失败: %w", name, err)
	}
	return img, nil
}

// FaceMeasurer 实现 layout.FaceSource：返回指定字体键与字号的宽度度量。
// 返回的宽度以画布单位（像素）计。
func (r *Renderer) FaceMeasurer(fontKey string, fontSize float64) (layout.Measurer, error) {
	face, err := r.fontFace(fontKey, fontSize, design.DefaultTextBoxColor)
	if err != nil {
		return nil, err
	}
	return layout.MeasureFunc(face.TextWidth), nil
}

func (r *Renderer) fontFace(fontKey string, sizePx float64, colorHex string) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(fontKey)
	if err != nil {
		return nil, err
	}
	col, cerr := layout.ParseColor(colorHex)
	if cerr != nil {
		col = layout.Color{R: 17, G: 24, B: 39}
	}
	return family.Face(toPt(sizePx), rgba(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(fontKey string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[fontKey]; ok {
		return family, nil
	}
	src, ok := fontFiles[fontKey]
	if !ok {
		src = fontFiles[design.FontKeys[0]]
	}
	data, err := fonts.Load(src)
	if err != nil {
		return r.fallbackFamily(err)
	}
	family := canvas.NewFontFamily(layout.FontFamilyFor(fontKey))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return r.fallbackFamily(err)
	}
	r.fontFamilies[fontKey] = family
	return family, nil
}

// fallbackFamily 在指定字重加载失败时退回 Regular，全部失败才真正报错。
func (r *Renderer) fallbackFamily(cause error) (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	data, err := fonts.Load("Inter/static/Inter-Regular.ttf")
	if err != nil {
		return nil, fmt.Errorf("加载回落字体失败（原始错误: %v）: %w", cause, err)
	}
	family := canvas.NewFontFamily("vitrine-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("注册回落字体失败: %w", err)
	}
	r.fallback = family
	return family, nil
}

func roundedRect(rect layout.Rect, radius float64) *canvas.Path {
	radius = math.Min(radius, math.Min(rect.Width, rect.Height)/2)
	if radius <= 0 {
		return canvas.Rectangle(rect.Width, rect.Height)
	}
	return canvas.RoundedRectangle(rect.Width, rect.Height, radius)
}

func rgba(c layout.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

func hexColor(hex string) color.RGBA {
	c, err := layout.ParseColor(hex)
	if err != nil {
		return color.RGBA{R: 242, G: 244, B: 247, A: 255}
	}
	return rgba(c)
}
