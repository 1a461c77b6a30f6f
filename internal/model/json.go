package model

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON jsonb 字段
type JSON map[string]interface{}

// JSON 实现 driver.Valuer 和 sql.Scanner
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (JSON) GormDataType() string {
	return "jsonb"
}

// Int 读取整数值（jsonb 反序列化后数字是 float64）
func (j JSON) Int(key string) (int, bool) {
	if j == nil {
		return 0, false
	}
	switch v := j[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
