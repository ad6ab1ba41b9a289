// Package viewer 把图表写成临时 SVG 并交给系统查看器打开。
package viewer

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/ecgplot/export"
	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

// Launcher opens a file with an external viewer.
type Launcher interface {
	Launch(path string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(path string) error

// Launch calls f(path).
func (f LauncherFunc) Launch(path string) error { return f(path) }

// CommandLauncher 用平台默认的打开命令启动查看器，不等待其退出。
// Command 非空时改用该命令，文件路径作为最后一个参数追加。
type CommandLauncher struct {
	Command string
	GOOS    string // 为空时使用 runtime.GOOS
}

// Launch starts the open command for path.
func (l CommandLauncher) Launch(path string) error {
	name, args, err := l.command(path)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("启动 %s 失败: %w", name, err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

func (l CommandLauncher) command(path string) (string, []string, error) {
	if fields := strings.Fields(l.Command); len(fields) > 0 {
		return fields[0], append(fields[1:], path), nil
	}
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	}
	return "", nil, fmt.Errorf("不支持的平台: %s", goos)
}

// Session 持有临时文件计数器。计数从 1 开始，每次 Show 后递增，同一 Session 内不会复用。
// Session 不做并发保护，调用方应顺序调用。
type Session struct {
	dir      string
	renderer renderer.Renderer
	launcher Launcher
	logger   *log.Logger
	counter  int
}

// NewSession 创建查看会话。dir 为空时使用当前目录，logger 为空时使用 log.Default()。
func NewSession(dir string, r renderer.Renderer, l Launcher, logger *log.Logger) *Session {
	if dir == "" {
		dir = export.DefaultPath
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{dir: dir, renderer: r, launcher: l, logger: logger, counter: 1}
}

// Counter 返回下一次 Show 将使用的编号。
func (s *Session) Counter() int { return s.counter }

// Show 写出 <dir>show_tmp_file_<n>.svg 并打开它，返回文件路径。
// 渲染或写文件失败会返回错误；打开失败只记录日志。
func (s *Session) Show(chart *layout.Chart) (string, error) {
	name := fmt.Sprintf("show_tmp_file_%d", s.counter)
	file, err := export.SaveSVG(s.renderer, chart, name, s.dir)
	if err != nil {
		return "", err
	}
	s.counter++

	if s.launcher == nil {
		return file, nil
	}
	if err := s.launcher.Launch(file); err != nil {
		s.logger.Warn("打开查看器失败", "file", file, "err", err)
	} else {
		s.logger.Debug("已打开查看器", "file", file)
	}
	return file, nil
}
