// Package logger wraps zap construction for the service
// Package logger 封装服务的 zap 日志器构建
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config logger configuration
// Config 日志配置
type Config struct {
	// Level log level, see zapcore.ParseLevel
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string
	// File log file path; empty means stderr only
	// File 日志文件路径，为空则仅输出到 stderr
	File string
	// Production enables JSON output and disables console colors
	// Production 启用 JSON 输出并关闭控制台颜色
	Production bool
	// MaxSize maximum log file size in MB before rotation, default 100
	// MaxSize 日志文件轮转前的最大体积（MB），默认 100
	MaxSize int
	// MaxBackups rotated files kept, default 5
	// MaxBackups 保留的轮转文件数量，默认 5
	MaxBackups int
}

// NewLogger builds the main zap logger from config
// NewLogger 根据配置构建主日志器
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5
	}

	var cores []zapcore.Core

	// Console output
	// 控制台输出
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Production {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	))

	// File output with rotation
	// 带轮转的文件输出
	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		})

		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		var fileEncoder zapcore.Encoder
		if cfg.Production {
			fileEncoder = zapcore.NewJSONEncoder(fileEncoderConfig)
		} else {
			fileEncoder = zapcore.NewConsoleEncoder(fileEncoderConfig)
		}
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
