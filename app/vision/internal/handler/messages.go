package handler

// 面向客户端的提示文案
// 客户端只会看到四种消息类型，从不暴露原始错误堆栈。
const (
	msgDecodeError   = "视频帧解码错误，请检查图像格式"
	msgRateLimited   = "请稍等，正在处理上一帧..."
	msgOverloaded    = "AI服务暂时繁忙，请稍后再试... (自动调整处理速度)"
	msgEmptyResponse = "AI未能生成回应，请稍后再试"
	msgProcessPrefix = "AI处理错误: "
	msgTransport     = "连接错误，请刷新页面重试"
)
