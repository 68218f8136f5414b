package types

import (
	"fmt"
	"strings"
)

// unmarshalEnum 通过名称表反向解析枚举文本
func unmarshalEnum[T comparable](b []byte, names map[T]string, dst *T, what string) error {
	s := strings.TrimSpace(string(b))
	for v, name := range names {
		if strings.EqualFold(name, s) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}
