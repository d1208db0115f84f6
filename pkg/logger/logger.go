package logger

import (
	"edusphere_backend/internal/config"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "edusphere-backend"

// Log 在 InitLogger 之前是 no-op，测试和脚本可以直接使用
var Log = zap.NewNop()

// InitLogger 文件输出 JSON（按大小轮转），控制台输出可读格式
func InitLogger(cfg *config.Config) {
	level := resolveLevel(cfg)

	rotating := &lumberjack.Logger{
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   true,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), zapcore.AddSync(rotating), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(cfg.Server.Mode == gin.DebugMode)), zapcore.Lock(os.Stdout), level),
	)

	Log = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("service", serviceName)),
	)
}

// resolveLevel log.level 优先；未配置或无法解析时 debug 模式用 Debug，否则 Info
func resolveLevel(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return lvl
		}
	}
	if cfg.Server.Mode == gin.DebugMode {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return ec
}

// GinLogger 访问日志；5xx 记为 Error，4xx 记为 Warn
func GinLogger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			Log.Error("request", fields...)
		case status >= 400:
			Log.Warn("request", fields...)
		default:
			Log.Info("request", fields...)
		}
	}
}
