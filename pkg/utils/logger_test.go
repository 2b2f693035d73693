package utils

import (
	"os"
	"path"
	"strings"
	"testing"
)

func TestGetLoggerWritesFile(t *testing.T) {
	dir := path.Join(t.TempDir(), "logs")

	logger := GetLogger(dir)
	logger.Sugar().Infof("hello %s", "minisql")
	logger.Sync()

	data, err := os.ReadFile(path.Join(dir, "log.log"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, " | ") || !strings.Contains(line, "hello minisql") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestGetLoggerStdoutOnly(t *testing.T) {
	logger := GetLogger("")
	logger.Info("stdout only")
}
