package utils

import (
	"os"
	"path"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetLogger logs to <dir>/log.log and stdout. An empty dir, or a log file
// that cannot be opened, leaves stdout only.
func GetLogger(dir string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.ConsoleSeparator = " | "
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	var openErr error
	if dir != "" {
		file, err := openLogFile(dir)
		if err != nil {
			openErr = err
		} else {
			writers = append(writers, zapcore.AddSync(file))
		}
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), zapcore.DebugLevel)
	logger := zap.New(core, zap.AddCaller())
	if openErr != nil {
		logger.Sugar().Errorf("打开日志文件 %s 失败: %v", dir, openErr)
	}
	return logger
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path.Join(dir, "log.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}
