package db

import (
	"errors"
	"fmt"

	"campus-map/algo"
	"campus-map/ingest"
	"campus-map/logger"
	"campus-map/model"

	"gorm.io/gorm"
)

const batchSize = 100

// SaveMap 在一个事务中用地图的当前内容替换全部地图表
func SaveMap(db *gorm.DB, m *algo.Map, paths *model.SavedPaths) error {
	rows, err := MapToRows(m)
	if err != nil {
		return err
	}
	pathRows := PathsToRows(paths)

	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []any{&EdgeRow{}, &NodeRow{}, &BuildingRow{}, &MPORow{}, &SavedPathRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("清空地图表失败: %w", err)
			}
		}
		if err := createAll(tx, rows.Buildings, "建筑"); err != nil {
			return err
		}
		if err := createAll(tx, rows.Nodes, "节点"); err != nil {
			return err
		}
		if err := createAll(tx, rows.Edges, "边"); err != nil {
			return err
		}
		if err := createAll(tx, rows.MPOs, "多边形"); err != nil {
			return err
		}
		return createAll(tx, pathRows, "路径")
	})
}

func createAll[T any](tx *gorm.DB, rows []T, kind string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("插入%s失败: %w", kind, err)
	}
	return nil
}

// LoadMap 从数据库读取地图和已保存路径
func LoadMap(db *gorm.DB) (*algo.Map, *model.SavedPaths, error) {
	rows := &MapRows{}
	if err := db.Order("position").Find(&rows.Buildings).Error; err != nil {
		return nil, nil, fmt.Errorf("读取建筑失败: %w", err)
	}
	if err := db.Order("position").Find(&rows.Nodes).Error; err != nil {
		return nil, nil, fmt.Errorf("读取节点失败: %w", err)
	}
	if err := db.Order("position").Find(&rows.Edges).Error; err != nil {
		return nil, nil, fmt.Errorf("读取边失败: %w", err)
	}
	if err := db.Order("position").Find(&rows.MPOs).Error; err != nil {
		return nil, nil, fmt.Errorf("读取多边形失败: %w", err)
	}
	var pathRows []SavedPathRow
	if err := db.Order("position").Find(&pathRows).Error; err != nil {
		return nil, nil, fmt.Errorf("读取路径失败: %w", err)
	}

	m, err := RowsToMap(rows)
	if err != nil {
		return nil, nil, err
	}
	return m, RowsToPaths(pathRows), nil
}

// SeedIfEmpty 数据库为空时从文本地图导入初始数据
func SeedIfEmpty(db *gorm.DB, seedFile string) error {
	var nodeCount int64
	if err := db.Model(&NodeRow{}).Count(&nodeCount).Error; err != nil {
		return fmt.Errorf("统计节点失败: %w", err)
	}
	if nodeCount > 0 {
		return nil
	}

	logger.L().Info("db_seed_start", "file", seedFile)
	res, err := ingest.ParseFile(seedFile)
	if err != nil {
		return fmt.Errorf("导入地图数据失败: %w", err)
	}
	if err := SaveMap(db, res.Map, res.Paths); err != nil {
		return err
	}
	logger.L().Info("db_seed_done", "nodes", res.Map.NNodes(), "edges", res.Map.NEdges(), "paths", res.Paths.Len())
	return nil
}

// UserStore 基于 gorm 的用户存储
type UserStore struct {
	db *gorm.DB
}

// NewUserStore 创建用户存储
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create 创建用户，用户名重复时返回 DuplicateParameter
func (s *UserStore) Create(u *model.User) error {
	err := s.db.Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("用户名 %q 已存在: %w", u.Username, model.ErrDuplicateParameter)
	}
	if err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

// FindByUsername 按用户名查找，不存在时返回 ObjectNotFound
func (s *UserStore) FindByUsername(username string) (*model.User, error) {
	var u model.User
	err := s.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("用户 %q: %w", username, model.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}
