package model

// QueryRequest 对话请求：一段用户文本加上可选的各厂商凭证
type QueryRequest struct {
	// Query 用户输入的自然语言
	Query string `json:"query" binding:"required"`
	// SessionID 会话标识，凭证、会议台账和会话目录都按会话隔离；为空时使用默认会话
	SessionID string `json:"session_id,omitempty"`
	// 本次请求携带的凭证，会合并进会话已保存的凭证
	Credentials
}

// QueryResponse 对话响应
type QueryResponse struct {
	// TaskID 请求 ID，便于追踪
	TaskID  string    `json:"task_id"`
	Action  ActionTag `json:"action"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	// Parameters 回显解析出的参数
	Parameters Params `json:"parameters,omitempty"`
}
