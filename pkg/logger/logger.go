package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the global logger. "production"/"prod" gets JSON output at info
// level, everything else the development console encoder at debug level.
func Init(environment string) {
	var cfg zap.Config
	switch strings.ToLower(environment) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewExample()
	}

	mu.Lock()
	sugar = zl.Sugar()
	mu.Unlock()
}

func Sync() {
	_ = current().Sync()
}

func Debug(msg string, args ...any) {
	current().Debugw(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	current().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	current().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	current().Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	current().Fatalw(msg, normalize(args)...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// normalize lets callers pass a bare error (logger.Error("msg", err)); a
// dangling value is logged under "error".
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, args[:len(args)-1]...)
	return append(out, "error", args[len(args)-1])
}
