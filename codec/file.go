package codec

import (
	"fmt"
	"os"
	"path/filepath"

	"campus-map/algo"
	"campus-map/model"
)

// SaveMapFile 把地图写入文件
// 先写临时文件再重命名，读者不会看到写了一半的文件；失败不重试。
func SaveMapFile(path string, m *algo.Map) error {
	data, err := EncodeMap(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// LoadMapFile 从文件读取地图
func LoadMapFile(path string) (*algo.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	m, err := DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("解析地图文件 %s 失败: %w", path, err)
	}
	return m, nil
}

// SaveSavedPathsFile 把已保存的路径写入文件
func SaveSavedPathsFile(path string, s *model.SavedPaths) error {
	data, err := EncodeSavedPaths(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// LoadSavedPathsFile 从文件读取已保存的路径
func LoadSavedPathsFile(path string) (*model.SavedPaths, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	s, err := DecodeSavedPaths(data)
	if err != nil {
		return nil, fmt.Errorf("解析路径文件 %s 失败: %w", path, err)
	}
	return s, nil
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("重命名文件失败: %w", err)
	}
	return nil
}
