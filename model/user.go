package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// User 地图编辑账号，登录后才能修改地图
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt 哈希，不输出
	Email    string `json:"email"`
}

// TableName 与地图表放在同一前缀下
func (User) TableName() string { return "campus_users" }

// NewUser 创建用户，hashedPassword 必须是已经加密过的密码
func NewUser(username, hashedPassword, email string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || hashedPassword == "" {
		return nil, fmt.Errorf("创建用户失败: %w", ErrInvalidParameter)
	}
	return &User{Username: username, Password: hashedPassword, Email: email}, nil
}
