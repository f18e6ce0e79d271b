package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/vitrine/design"
	"github.com/ByLCY/vitrine/dsl"
	"github.com/ByLCY/vitrine/layout"
	"github.com/ByLCY/vitrine/renderer"
	canvasrenderer "github.com/ByLCY/vitrine/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.vitrine", "场景文件（.vitrine）或项目文件（.json）路径")
	output := flag.String("out", "output/preview.png", "输出路径（.png 单画布 / .pdf 整个项目）")
	dataJSON := flag.String("data", "", "绑定到 ${} 占位符的 JSON 数据（文件路径或内联 JSON）")
	assets := flag.String("assets", "", "媒体资源目录（默认为输入文件所在目录）")
	canvasSel := flag.String("canvas", "", "PNG 输出时选用的画布 id 或名称（默认当前画布）")
	debugPath := flag.String("debug", "", "组合调试 JSON 输出路径")
	watch := flag.Bool("watch", false, "监听输入文件变化并自动重渲染")
	edit := flag.Bool("edit", false, "进入交互式编辑会话")
	flag.Parse()

	data, err := loadData(*dataJSON)
	if err != nil {
		log.Fatalf("解析 data JSON 失败: %v", err)
	}

	assetDir := *assets
	if assetDir == "" {
		assetDir = filepath.Dir(*input)
	}
	var r renderer.Renderer = canvasrenderer.NewRenderer(assetDir)

	if *edit {
		if err := runEdit(*input, *output, data, r); err != nil {
			log.Fatalf("编辑会话异常退出: %v", err)
		}
		return
	}

	if *watch {
		if err := runWatch(*input, *output, *dataJSON, *canvasSel, *debugPath, r); err != nil {
			log.Fatalf("监听失败: %v", err)
		}
		return
	}

	if err := run(*input, *output, *canvasSel, *debugPath, data, r); err != nil {
		log.Fatalf("生成预览失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", *output)
}

// run 串联加载、组合与渲染。
func run(inputPath, outputPath, canvasSel, debugPath string, data any, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	project, err := loadDesign(inputPath, data)
	if err != nil {
		return err
	}

	faces, _ := r.(layout.FaceSource) // 度量能力缺失时组合阶段回落到估算
	metas := layout.BuildProjectMetas(project.State, layout.BuildOptions{Faces: faces})

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(metas, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	var out []byte
	if strings.EqualFold(filepath.Ext(outputPath), ".pdf") {
		out, err = r.RenderPDF(metas)
	} else {
		meta, perr := pickCanvas(project.State, metas, canvasSel)
		if perr != nil {
			return perr
		}
		out, err = r.RenderPNG(meta)
	}
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件 %s 失败: %w", outputPath, err)
	}
	return nil
}

// runWatch 监听输入文件，写入事件后延迟重渲染（编辑器保存往往触发多次事件）。
func runWatch(inputPath, outputPath, dataJSON, canvasSel, debugPath string, r renderer.Renderer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	// 监听目录而非单个文件：许多编辑器以"写临时文件再改名"的方式保存
	if err := watcher.Add(filepath.Dir(inputPath)); err != nil {
		return fmt.Errorf("监听 %s 失败: %w", inputPath, err)
	}
	watched := map[string]bool{filepath.Clean(inputPath): true}
	if dataJSON != "" {
		if _, err := os.Stat(dataJSON); err == nil {
			watched[filepath.Clean(dataJSON)] = true
			if dir := filepath.Dir(dataJSON); dir != filepath.Dir(inputPath) {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("监听 %s 失败: %w", dataJSON, err)
				}
			}
		}
	}

	render := func() {
		data, err := loadData(dataJSON)
		if err != nil {
			log.Printf("解析 data JSON 失败: %v", err)
			return
		}
		if err := run(inputPath, outputPath, canvasSel, debugPath, data, r); err != nil {
			log.Printf("重渲染失败: %v", err)
			return
		}
		log.Printf("已更新：%s", outputPath)
	}
	render()

	debounced := debounce.New(200 * time.Millisecond)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounced(render)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("监听错误: %v", err)
		}
	}
}

// loadDesign 按扩展名加载设计：.json 走项目文件净化路径，其余按场景 DSL 解析。
func loadDesign(path string, data any) (design.ProjectRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, err := design.LoadProjectFile(path)
		if err != nil {
			return design.ProjectRecord{}, err
		}
		return design.ProjectRecord{ID: file.Project.ID, Name: file.Project.Name, State: file.State}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return design.ProjectRecord{}, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer f.Close()
	doc, err := dsl.Parse(f)
	if err != nil {
		return design.ProjectRecord{}, fmt.Errorf("解析场景文件失败: %w", err)
	}
	return design.FromDocument(doc, data), nil
}

// loadData 支持文件路径或内联 JSON 两种形式。
func loadData(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if _, err := os.Stat(arg); err == nil {
		raw, err = os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", arg, err)
		}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// pickCanvas 在 PNG 输出时选取一张画布：-canvas 指定 id/名称，缺省取项目当前画布。
func pickCanvas(state design.ProjectDesignState, metas []*layout.CanvasMeta, sel string) (*layout.CanvasMeta, error) {
	want := sel
	if want == "" {
		want = state.CurrentCanvasID
	}
	for i, rec := range state.Canvases {
		if rec.ID == want || rec.Name == want {
			return metas[i], nil
		}
	}
	if sel == "" && len(metas) > 0 {
		return metas[0], nil
	}
	return nil, fmt.Errorf("画布 %s 不存在", sel)
}
