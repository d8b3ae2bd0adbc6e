package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexInt 大模型可能把数字写成字符串，两种写法都接受
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("flex int %q: %w", s, err)
		}
		*n = FlexInt(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = FlexInt(math.Trunc(f))
	return nil
}

// FlexString 标识符类字段（频道 ID、用户 ID）可能是数字也可能是字符串
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*s = FlexString(num.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// Rows 表格数据，解码时每个单元格都被转成字符串
type Rows [][]string

func (r *Rows) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = NormalizeRows(raw)
	return nil
}

// NormalizeRows 将任意二维数组转为字符串矩阵：null 为空串，非数组行变成空行，非数组输入返回空矩阵
func NormalizeRows(v any) Rows {
	list, ok := v.([]any)
	if !ok {
		return Rows{}
	}
	out := make(Rows, 0, len(list))
	for _, row := range list {
		cells, ok := row.([]any)
		if !ok {
			out = append(out, []string{})
			continue
		}
		strs := make([]string, len(cells))
		for i, c := range cells {
			strs[i] = CellString(c)
		}
		out = append(out, strs)
	}
	return out
}

// CellString 单元格转字符串
func CellString(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
