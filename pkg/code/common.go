package code

// 通用成功码
var (
	Success       = NewSuss(200, lang{en: "Success", zh_cn: "成功"})
	SuccessRecord = NewSuss(201, lang{en: "Usage event recorded", zh_cn: "使用事件已记录"})
)

// 通用错误码
var (
	ErrorServerInternal  = NewError(10000, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorInvalidParams   = NewError(10001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorNotFound        = NewError(10002, lang{en: "Not found", zh_cn: "找不到资源"})
	ErrorTooManyRequests = NewError(10003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorRequestTimeout  = NewError(10004, lang{en: "Request timeout", zh_cn: "请求超时"})
	ErrorDBQuery         = NewError(10005, lang{en: "Database query error", zh_cn: "数据库查询错误"})
	ErrorNotFoundAPI     = NewError(10006, lang{en: "API not found", zh_cn: "找不到接口"})
)

// 使用统计错误码
var (
	ErrorRecordFailed       = NewError(20000, lang{en: "Failed to record usage event", zh_cn: "使用事件记录失败"})
	ErrorInvalidEventKind   = NewError(20001, lang{en: "Unknown usage event kind", zh_cn: "未知的使用事件类型"})
	ErrorInvalidResourceID  = NewError(20002, lang{en: "Malformed resource id", zh_cn: "资源 ID 格式错误"})
	ErrorRankingUnavailable = NewError(20003, lang{en: "Popularity ranking unavailable", zh_cn: "热门排行暂不可用"})
)
