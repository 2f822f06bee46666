package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrLogNotInitialized      = errors.New("log object is not initialized yet")
	LOG_FOLDER_NAME_WITH_PATH = "log"
	globalLogLevel            = LOG_LEVEL_INFO
)

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// MetricsLogger writes leveled events synchronously. Events go to the console
// writer and, when a log file name was given, to that file as well.
type MetricsLogger struct {
	handle            *os.File
	loggerInitialized bool
	zapLogger         *zap.Logger
}

func (m *MetricsLogger) Init(console io.Writer, logFileName string, rewrite bool) error {

	var sinks []zapcore.WriteSyncer

	if console != nil {
		sinks = append(sinks, zapcore.AddSync(console))
	}

	m.handle = nil
	if logFileName != "" {
		CheckAndCreateLogFolder(LOG_FOLDER_NAME_WITH_PATH)
		fileWithRelPath := LOG_FOLDER_NAME_WITH_PATH + string(os.PathSeparator) + logFileName

		flags := os.O_RDWR | os.O_CREATE | os.O_APPEND
		if rewrite {
			flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
		}
		handle, err := os.OpenFile(fileWithRelPath, flags, 0666)
		if err != nil {
			return err
		}
		m.handle = handle
		sinks = append(sinks, zapcore.AddSync(handle))
	}

	m.zapLoggerInit(zapcore.NewMultiWriteSyncer(sinks...))

	m.loggerInitialized = true
	return nil
}

func (m *MetricsLogger) zapLoggerInit(writer zapcore.WriteSyncer) {

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	config.EncodeLevel = zapcore.CapitalLevelEncoder //To Print level in Uppercase.
	encoder := zapcore.NewConsoleEncoder(config)     //To Print Lines in non json format.

	core := zapcore.NewCore(encoder, writer, GlobalLogLevelSetter())
	m.zapLogger = zap.New(core)
}

func GlobalLogLevelSetter() zapcore.Level {
	switch globalLogLevel {
	case LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	case LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogEvent accepts either a lone message (logged at INFO) or a LOG_LEVEL_*
// constant followed by message parts, which are joined with spaces.
func (m *MetricsLogger) LogEvent(v ...interface{}) error {
	if m == nil || !m.loggerInitialized {
		return ErrLogNotInitialized
	}
	if len(v) == 0 {
		return nil
	}

	level := LOG_LEVEL_INFO
	parts := v
	if l, ok := v[0].(int); ok && len(v) > 1 && l >= LOG_LEVEL_ERROR && l <= LOG_LEVEL_DEBUG {
		level = l
		parts = v[1:]
	}
	msg := strings.TrimSuffix(fmt.Sprintln(parts...), "\n")

	switch level {
	case LOG_LEVEL_ERROR:
		m.zapLogger.Error(msg)
	case LOG_LEVEL_WARN:
		m.zapLogger.Warn(msg)
	case LOG_LEVEL_DEBUG:
		m.zapLogger.Debug(msg)
	default:
		m.zapLogger.Info(msg)
	}
	return nil
}

func (m *MetricsLogger) DeInit() {

	if m == nil || !m.loggerInitialized {
		return
	}
	m.loggerInitialized = false
	_ = m.zapLogger.Sync()

	if m.handle != nil {
		m.handle.Close()
	}
}

func SetCommonLoggerAttributes(GlobalLogLevel int) {
	globalLogLevel = GlobalLogLevel
}

func SetLoggerPath(logPath string) {
	LOG_FOLDER_NAME_WITH_PATH = logPath
}

func CheckAndCreateLogFolder(FolderNameWithPath string) {
	_, err := os.Stat(FolderNameWithPath)

	if os.IsNotExist(err) {
		err := os.MkdirAll(FolderNameWithPath, 0755)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create the log folder and Mkdir err :: ", err)
		}
	}
}
