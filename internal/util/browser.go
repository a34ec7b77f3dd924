package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// browserCommands 按优先级排列的打开 url 的命令
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 调用 url.dll 在 Windows 7 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, b := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{b, url})
		}
		return cmds
	}
}

// OpenBrowser 用系统默认方式打开 url
func OpenBrowser(url string) error {
	c := browserCommands(runtime.GOOS, url)[0]
	return exec.Command(c[0], c[1:]...).Start()
}

// OpenBrowserWithFallback 依次尝试所有候选命令，返回第一个错误
func OpenBrowserWithFallback(url string) error {
	var first error
	for _, c := range browserCommands(runtime.GOOS, url) {
		err := exec.Command(c[0], c[1:]...).Start()
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	return first
}

// FindAvailablePort 从 startPort 起找第一个可监听的端口，最多尝试 limit 个
func FindAvailablePort(startPort, limit int) (int, error) {
	for p := startPort; p < startPort+limit; p++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err != nil {
			continue
		}
		_ = l.Close()
		return p, nil
	}
	return 0, fmt.Errorf("no free port in [%d, %d)", startPort, startPort+limit)
}
