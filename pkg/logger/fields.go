package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldResourceID 资源 ID 字段
	FieldResourceID = "resourceId"

	// FieldKind 事件类型字段
	FieldKind = "kind"

	// FieldSessionID 会话 ID 字段
	FieldSessionID = "sessionId"

	// FieldLimit 排行长度字段
	FieldLimit = "limit"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"
)
