package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/vitrine/design"
	"github.com/ByLCY/vitrine/editor"
	"github.com/ByLCY/vitrine/history"
	"github.com/ByLCY/vitrine/layout"
	"github.com/ByLCY/vitrine/renderer"
)

// runEdit 启动交互式编辑会话：逐行读取命令，经 editor.Session 应用，
// undo/redo 由历史管理器支撑。save 写回项目 JSON，render 输出当前画布。
func runEdit(inputPath, outputPath string, data any, r renderer.Renderer) error {
	project, err := loadDesign(inputPath, data)
	if err != nil {
		return err
	}
	faces, _ := r.(layout.FaceSource)
	session := editor.NewSession(project,
		editor.WithFaces(faces),
		editor.WithHistoryOptions(history.WithDelay(200*time.Millisecond)),
	)

	savePath := inputPath
	if !strings.EqualFold(filepath.Ext(savePath), ".json") {
		savePath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".json"
	}

	fmt.Printf("编辑项目 %q（%d 张画布）。输入 help 查看命令。\n",
		session.ProjectName(), len(session.ProjectState().Canvases))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done, err := execLine(session, r, line, &savePath, outputPath)
		if err != nil {
			fmt.Printf("错误: %v\n", err)
			continue
		}
		if done {
			return nil
		}
	}
}

func execLine(s *editor.Session, r renderer.Renderer, line string, savePath *string, outputPath string) (bool, error) {
	args := splitArgs(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "quit", "exit", "q":
		return true, nil

	case "help":
		printHelp()

	case "ls":
		printState(s)

	case "add":
		if len(args) < 2 {
			return false, fmt.Errorf("用法: add <文本>")
		}
		id := s.AddTextBox(strings.Join(args[1:], " "))
		fmt.Printf("已添加文本框 %s\n", id)

	case "rm":
		if len(args) < 2 {
			return false, fmt.Errorf("用法: rm <文本框id>")
		}
		return false, s.RemoveTextBox(args[1])

	case "select":
		id := ""
		if len(args) > 1 {
			id = args[1]
		}
		return false, s.SelectTextBox(id)

	case "move":
		dx, dy, err := parsePair(args, "move <dx> <dy>")
		if err != nil {
			return false, err
		}
		box, ok := s.SelectedTextBox()
		if !ok {
			return false, fmt.Errorf("尚未选中文本框（先 select <id>）")
		}
		return false, s.MoveTextBox(box.ID, dx, dy)

	case "text":
		if len(args) < 2 {
			return false, fmt.Errorf("用法: text <新内容>")
		}
		box, ok := s.SelectedTextBox()
		if !ok {
			return false, fmt.Errorf("尚未选中文本框（先 select <id>）")
		}
		return false, s.SetText(box.ID, strings.Join(args[1:], " "))

	case "phone":
		dx, dy, err := parsePair(args, "phone <dx> <dy>")
		if err != nil {
			return false, err
		}
		s.MovePhone(dx, dy)

	case "scale":
		if len(args) < 2 {
			return false, fmt.Errorf("用法: scale <倍率>")
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return false, fmt.Errorf("倍率 %s 不是数字", args[1])
		}
		s.SetPhoneScale(v)

	case "bg":
		if len(args) < 3 {
			return false, fmt.Errorf("用法: bg solid <#颜色> 或 bg gradient <#从> <#到> [角度]")
		}
		bg := design.Background{Mode: design.BackgroundMode(args[1]), From: args[2], Angle: design.DefaultGradientAngle}
		if len(args) > 3 {
			bg.To = args[3]
		}
		if len(args) > 4 {
			if a, err := strconv.ParseFloat(args[4], 64); err == nil {
				bg.Angle = a
			}
		}
		s.SetBackground(bg)

	case "media":
		if len(args) < 2 {
			return false, fmt.Errorf("用法: media image|video <文件名> 或 media none")
		}
		name := ""
		if len(args) > 2 {
			name = args[2]
		}
		s.SetMedia(design.MediaKind(args[1]), name)

	case "canvas":
		if len(args) < 3 {
			return false, fmt.Errorf("用法: canvas add <名称> 或 canvas use <id|名称>")
		}
		switch args[1] {
		case "add":
			id := s.AddCanvas(strings.Join(args[2:], " "))
			fmt.Printf("已添加画布 %s\n", id)
		case "use":
			return false, s.SelectCanvas(args[2])
		default:
			return false, fmt.Errorf("未知子命令 canvas %s", args[1])
		}

	case "undo":
		if !s.Undo() {
			fmt.Println("没有可撤销的历史")
		}

	case "redo":
		if !s.Redo() {
			fmt.Println("没有可重做的历史")
		}

	case "render":
		path := outputPath
		if len(args) > 1 {
			path = args[1]
		}
		s.Flush()
		out, err := r.RenderPNG(s.ComposeCurrent())
		if err != nil {
			return false, fmt.Errorf("渲染失败: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return false, err
		}
		fmt.Printf("已渲染：%s\n", path)

	case "save":
		path := *savePath
		if len(args) > 1 {
			path = args[1]
			*savePath = path
		}
		s.Flush()
		file := &design.ProjectFile{
			Project: design.ProjectInfo{ID: projectID(s), Name: s.ProjectName()},
			State:   s.ProjectState(),
		}
		if err := file.Save(path); err != nil {
			return false, err
		}
		fmt.Printf("已保存：%s\n", path)

	default:
		return false, fmt.Errorf("未知命令 %s（help 查看全部命令）", args[0])
	}
	return false, nil
}

func projectID(s *editor.Session) string {
	ws := s.Workspace()
	return ws.CurrentProjectID
}

func printState(s *editor.Session) {
	ws := s.Workspace()
	rec := s.CurrentCanvas()
	fmt.Printf("项目 %q，当前画布 %q（%s，预设 %s）\n", s.ProjectName(), rec.Name, rec.ID, rec.State.CanvasPresetID)
	fmt.Printf("手机框 offset=(%.0f, %.0f) scale=%.2f，媒体 %s %s\n",
		rec.State.PhoneOffset.X, rec.State.PhoneOffset.Y, rec.State.PhoneScale,
		rec.State.Media.Kind, rec.State.Media.Name)
	for i, box := range rec.State.TextBoxes {
		marker := " "
		if box.ID == ws.SelectedTextBoxID {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s (%.0f, %.0f) w=%.0f %s/%.0f %q\n",
			marker, i, box.ID, box.X, box.Y, box.Width, box.FontKey, box.FontSize, box.Text)
	}
	past, future := s.HistoryDepth()
	fmt.Printf("历史: 可撤销 %d 步，可重做 %d 步\n", past, future)
}

func printHelp() {
	fmt.Print(`命令:
  ls                               查看当前画布状态
  add <文本>                       添加文本框
  select <id> / select             选中 / 取消选中文本框
  move <dx> <dy>                   平移选中的文本框
  text <新内容>                    替换选中文本框的内容
  rm <id>                          删除文本框
  phone <dx> <dy>                  平移手机框
  scale <倍率>                     设置手机框缩放 (0.5-1.8)
  bg solid <#色> | bg gradient <#从> <#到> [角度]
  media image|video <文件名> | media none
  canvas add <名称> / canvas use <id|名称>
  undo / redo                      撤销 / 重做
  render [路径]                    渲染当前画布为 PNG
  save [路径]                      保存项目 JSON
  quit                             退出
`)
}

// parsePair 解析两个数值参数。
func parsePair(args []string, usage string) (float64, float64, error) {
	if len(args) < 3 {
		return 0, 0, fmt.Errorf("用法: %s", usage)
	}
	dx, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s 不是数字", args[1])
	}
	dy, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s 不是数字", args[2])
	}
	return dx, dy, nil
}

// splitArgs 按空白切分命令行，双引号包裹的片段视为一个参数。
func splitArgs(line string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}
