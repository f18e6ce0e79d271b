package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将组合结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(metas []*CanvasMeta, path string) error {
	if len(metas) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
