package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于核对偏移量与刻度位置。
func WriteDebugJSON(chart *Chart, path string) error {
	if chart == nil {
		return nil
	}
	data, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
