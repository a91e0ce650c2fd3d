package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"campus-map/model"
)

// ErrTruncatedOrCorrupt 数据过短或格式不对
var ErrTruncatedOrCorrupt = errors.New("二进制数据被截断或已损坏")

// 所有整数固定宽度、小端序
var order = binary.LittleEndian

// writer 追加写入缓冲区
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)    { w.buf = append(w.buf, v) }
func (w *writer) i8(v int8)     { w.buf = append(w.buf, uint8(v)) }
func (w *writer) u16(v uint16)  { w.buf = order.AppendUint16(w.buf, v) }
func (w *writer) u64(v uint64)  { w.buf = order.AppendUint64(w.buf, v) }
func (w *writer) id(v model.ID) { w.u64(uint64(v)) }
func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }
func (w *writer) raw(b []byte)  { w.buf = append(w.buf, b...) }

func (w *writer) coord(c model.Coordinate) {
	w.f64(c.Lon)
	w.f64(c.Lat)
}

// str 写入以 NUL 结尾的字符串，空串只写一个 NUL
func (w *writer) str(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("字符串包含 NUL: %w", model.ErrInvalidParameter)
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return nil
}

// reader 带越界检查的顺序读取，任何越界都返回 ErrTruncatedOrCorrupt
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("偏移 %d 处需要 %d 字节: %w", r.off, n, ErrTruncatedOrCorrupt)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) i8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

func (r *reader) id() (model.ID, error) {
	v, err := r.u64()
	return model.ID(v), err
}

// objectID 读取对象自身的 ID，记录中不允许出现 NoID
func (r *reader) objectID(kind string) (model.ID, error) {
	id, err := r.id()
	if err != nil {
		return model.NoID, err
	}
	if id == model.NoID {
		return model.NoID, fmt.Errorf("%s ID 为 0: %w", kind, ErrTruncatedOrCorrupt)
	}
	return id, nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

func (r *reader) coord() (model.Coordinate, error) {
	lon, err := r.f64()
	if err != nil {
		return model.Coordinate{}, err
	}
	lat, err := r.f64()
	if err != nil {
		return model.Coordinate{}, err
	}
	return model.NewCoordinate(lon, lat), nil
}

// count 读取元素个数，并确认剩余字节至少能容纳 count 个 minSize 字节的元素
func (r *reader) count(minSize int) (int, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	if minSize < 1 {
		minSize = 1
	}
	if v > uint64(r.remaining()/minSize) {
		return 0, fmt.Errorf("数量 %d 超出剩余数据: %w", v, ErrTruncatedOrCorrupt)
	}
	return int(v), nil
}

func (r *reader) str() (string, error) {
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		return "", fmt.Errorf("偏移 %d 处字符串缺少结尾: %w", r.off, ErrTruncatedOrCorrupt)
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s, nil
}

func (r *reader) magic(want string) error {
	b, err := r.take(len(want))
	if err != nil {
		return err
	}
	if string(b) != want {
		return fmt.Errorf("文件头 %q 不是 %q: %w", b, want, ErrTruncatedOrCorrupt)
	}
	v, err := r.u16()
	if err != nil {
		return err
	}
	if v != Version {
		return fmt.Errorf("不支持的版本 %d: %w", v, ErrTruncatedOrCorrupt)
	}
	return nil
}

// done 确认数据已全部读完
func (r *reader) done() error {
	if r.remaining() != 0 {
		return fmt.Errorf("末尾多出 %d 字节: %w", r.remaining(), ErrTruncatedOrCorrupt)
	}
	return nil
}
