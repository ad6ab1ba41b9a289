package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
)

// Builtin 是内置字体的名称。
const Builtin = "builtin:go-regular"

// Load 返回字体字节数据。path 为空或为 "builtin:go-regular" 时返回内置的 Go Regular，
// 否则按文件路径读取 TTF/OTF。
func Load(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == Builtin || path == strings.TrimPrefix(Builtin, "builtin:") {
		return goregular.TTF, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}
