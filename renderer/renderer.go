package renderer

import "github.com/ByLCY/vitrine/layout"

// Renderer 将组合结果输出为最终文件。
// RenderPNG 渲染单张画布为 PNG 字节；RenderPDF 把整个项目的画布渲染为多页 PDF。
type Renderer interface {
	RenderPNG(meta *layout.CanvasMeta) ([]byte, error)
	RenderPDF(metas []*layout.CanvasMeta) ([]byte, error)
}
