package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"StampVault/internal/config"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

// withTempConfig возвращает конфиг, у которого база, настройки и превью лежат в temp.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:       dir,
		DatabaseDSN:   filepath.Join(dir, "vault.sqlite"),
		AssetCacheDir: filepath.Join(dir, "cache"),
		ImageMaxMB:    10,
		Autofill:      true,
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// withStdin подменяет ответы на вопросы подтверждения.
func withStdin(t *testing.T, input string) {
	t.Helper()
	old := In
	In = strings.NewReader(input)
	t.Cleanup(func() { In = old })
}

// writeImage кладёт фиктивный PNG во временный каталог.
func writeImage(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "stamp.png")
	if err := os.WriteFile(p, pngBytes, 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return p
}

// idFromOutput достаёт id из вывода add.
func idFromOutput(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) == 2 && f[0] == "id:" {
			return f[1]
		}
	}
	t.Fatalf("no id in output: %s", out)
	return ""
}
