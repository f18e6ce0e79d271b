package design

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ProjectFileVersion 是当前项目文件格式版本。旧版本或未知版本不拒绝，按同样的净化规则尽力解析。
const ProjectFileVersion = 1

// ProjectInfo 记录项目文件的元数据。
type ProjectInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
	Revision  int       `json:"revision,omitempty"`
}

// ProjectFile 是持久化的项目文件形态：{version, project, state}。
type ProjectFile struct {
	Version int                `json:"version"`
	Project ProjectInfo        `json:"project"`
	State   ProjectDesignState `json:"state"`
}

// LoadProjectFile 读取并净化一个项目文件。文件内容视为不可信输入：
// 结构缺失或字段非法不会导致失败，只有读不到文件或不是 JSON 才返回错误。
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取项目文件 %s 失败: %w", path, err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析项目文件 %s 失败: %w", path, err)
	}

	obj := asMap(raw)
	pObj := asMap(obj["project"])
	info := ProjectInfo{
		ID:       asString(pObj["id"], uuid.NewString()),
		Name:     asString(pObj["name"], "未命名项目"),
		Revision: int(asFinite(pObj["revision"], 0)),
	}
	if ts := asString(pObj["updatedAt"], ""); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			info.UpdatedAt = t
		}
	}
	return &ProjectFile{
		Version: int(asFinite(obj["version"], ProjectFileVersion)),
		Project: info,
		State:   SanitizeProject(obj["state"]),
	}, nil
}

// Save 将项目文件写入磁盘，写入前递增修订号并刷新时间戳。
func (f *ProjectFile) Save(path string) error {
	f.Version = ProjectFileVersion
	f.Project.Revision++
	f.Project.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化项目失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入项目文件 %s 失败: %w", path, err)
	}
	return nil
}

// NewProject 创建带一张默认画布的新项目。
func NewProject(name string) ProjectRecord {
	canvas := NewCanvas("画布 1")
	return ProjectRecord{
		ID:   uuid.NewString(),
		Name: name,
		State: ProjectDesignState{
			Canvases:        []ProjectCanvasRecord{canvas},
			CurrentCanvasID: canvas.ID,
		},
	}
}

// NewCanvas 创建一张使用全部默认值的画布记录。
func NewCanvas(name string) ProjectCanvasRecord {
	return ProjectCanvasRecord{
		ID:   uuid.NewString(),
		Name: name,
		State: CanvasDesignState{
			CanvasPresetID: DefaultCanvasPresetID,
			Background: Background{
				Mode:  BackgroundSolid,
				From:  DefaultBackgroundFrom,
				To:    DefaultBackgroundTo,
				Angle: DefaultGradientAngle,
			},
			PhoneScale: DefaultPhoneScale,
			Media:      MediaRef{Kind: MediaNone},
		},
	}
}

// NewTextBox 在 (x, y) 创建一个使用默认样式的文本框。
func NewTextBox(text string, x, y float64) TextBoxModel {
	return TextBoxModel{
		ID:       uuid.NewString(),
		Text:     text,
		X:        x,
		Y:        y,
		Width:    DefaultTextBoxWidth,
		FontKey:  FontKeys[0],
		FontSize: DefaultTextBoxFontSize,
		Color:    DefaultTextBoxColor,
	}
}
