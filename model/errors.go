package model

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fault 错误类型位掩码
// 和通行模式一样用二进制位表示，多个错误可以按位或累积
type Fault uint8

const (
	FaultNone               Fault = 0
	FaultInvalidParameter   Fault = 1 << 0 // 1: 缺少必需参数或参数非法
	FaultDuplicateParameter Fault = 1 << 1 // 2: 重复参数 (如 ID 冲突)
	FaultOutOfBoundsIndex   Fault = 1 << 2 // 4: 索引越界
	FaultObjectNotFound     Fault = 1 << 3 // 8: 对象不存在
)

// 单次调用返回的哨兵错误，配合 errors.Is 使用
var (
	ErrInvalidParameter   error = FaultInvalidParameter
	ErrDuplicateParameter error = FaultDuplicateParameter
	ErrOutOfBoundsIndex   error = FaultOutOfBoundsIndex
	ErrObjectNotFound     error = FaultObjectNotFound
)

// faultOrder 报告时的检查顺序，只输出第一个命中的级别
var faultOrder = []Fault{
	FaultInvalidParameter,
	FaultDuplicateParameter,
	FaultOutOfBoundsIndex,
	FaultObjectNotFound,
}

// First 返回掩码中按检查顺序第一个命中的级别
func (f Fault) First() Fault {
	for _, kind := range faultOrder {
		if f&kind != 0 {
			return kind
		}
	}
	return FaultNone
}

// Error 实现 error 接口；组合掩码只描述第一个级别
func (f Fault) Error() string {
	switch f.First() {
	case FaultInvalidParameter:
		return "参数无效"
	case FaultDuplicateParameter:
		return "参数重复"
	case FaultOutOfBoundsIndex:
		return "索引越界"
	case FaultObjectNotFound:
		return "对象不存在"
	default:
		return "无错误"
	}
}

// FaultOf 从错误链中提取 Fault，非 Fault 错误返回 FaultNone
func FaultOf(err error) Fault {
	var f Fault
	if errors.As(err, &f) {
		return f
	}
	return FaultNone
}

// Collector 可选的批量错误收集器
// 默认每个操作直接返回 error；需要像旧版错误上下文那样累积多个调用的结果时才使用它。
// 注意：累积后不保留是哪一次调用失败，也不区分同级别的多次失败。
type Collector struct {
	flags Fault
}

// Add 记录一次调用的结果，返回 err 是否非空
func (c *Collector) Add(err error) bool {
	if err == nil {
		return false
	}
	c.flags |= FaultOf(err)
	return true
}

// Flags 返回累积的掩码
func (c *Collector) Flags() Fault { return c.flags }

// Has 判断是否累积过指定级别
func (c *Collector) Has(f Fault) bool { return c.flags&f != 0 }

// Encountered 是否遇到过任何错误
func (c *Collector) Encountered() bool { return c.flags != FaultNone }

// Reset 清空，两次批量操作之间必须显式调用
func (c *Collector) Reset() { c.flags = FaultNone }

// Err 返回第一个级别对应的哨兵错误，没有错误时返回 nil
func (c *Collector) Err() error {
	first := c.flags.First()
	if first == FaultNone {
		return nil
	}
	return first
}

// Report 输出人类可读的错误摘要
func (c *Collector) Report(w io.Writer) {
	if c.flags == FaultNone {
		fmt.Fprintln(w, "No errors encountered!")
		return
	}
	fmt.Fprintln(w, "Errors Collected:")
	fmt.Fprintf(w, "\tError: %s\n", c.flags.First().Error())
}

// ValidText 名称等字符串在存储格式里以 NUL 结尾，内部不能含 NUL
func ValidText(s ...string) bool {
	for _, v := range s {
		if strings.IndexByte(v, 0) >= 0 {
			return false
		}
	}
	return true
}
