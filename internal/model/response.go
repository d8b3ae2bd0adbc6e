package model

import (
	"fmt"
	"reflect"
)

// Response 分发结果：message 总是可读文本，data 为归一化记录（数组或单个对象）
type Response struct {
	Action  ActionTag `json:"action"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// ItemCount data 为切片时返回元素个数
func (r Response) ItemCount() (int, bool) {
	if r.Data == nil {
		return 0, false
	}
	v := reflect.ValueOf(r.Data)
	if v.Kind() != reflect.Slice {
		return 0, false
	}
	return v.Len(), true
}

// ErrorKind 分发失败的分类，对外都会转成 Response
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMissingCredential
	KindMissingParam
	KindResolutionMiss
	KindVendor
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingCredential:
		return "missing_credential"
	case KindMissingParam:
		return "missing_param"
	case KindResolutionMiss:
		return "resolution_miss"
	case KindVendor:
		return "vendor"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result 内部结果：Response 始终有效，Kind/Err 说明它是如何得到的
type Result struct {
	Response Response
	Kind     ErrorKind
	Err      error
}

// OK 是否为正常结果
func (r Result) OK() bool { return r.Kind == KindNone }
