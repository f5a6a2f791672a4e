package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Scope definitions
const (
	// 路线图权限
	ScopeRoadmapRead  = "roadmap.read"
	ScopeRoadmapWrite = "roadmap.write"

	// AI 功能权限（简历分析、方向推荐、生成、对话）
	ScopeAIUse = "ai.use"

	// 用户管理权限
	ScopeUserManage = "user.manage"
)

var allScopes = []string{
	ScopeRoadmapRead, ScopeRoadmapWrite,
	ScopeAIUse,
	ScopeUserManage,
}

// DefaultScopes 新注册用户的默认权限,不含用户管理。
var DefaultScopes = []string{ScopeRoadmapRead, ScopeRoadmapWrite, ScopeAIUse}

// User 数据模型
// Password 存储 bcrypt 哈希
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password_hash,omitempty"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Claims 自定义 JWT claims
type Claims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

// tokenTTL 令牌有效期
const tokenTTL = 24 * time.Hour

// Manager 管理用户及 JWT
// 简易文件存储 users/users.json
type Manager struct {
	mu        sync.RWMutex
	users     map[string]*User
	secretKey []byte
	storePath string
}

// NewManager 创建管理器，secret 用于 JWT 签名
func NewManager(storeDir string, secret []byte) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("secret key required")
	}
	m := &Manager{users: map[string]*User{}, secretKey: secret, storePath: filepath.Join(storeDir, "users.json")}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// load 从文件读取
func (m *Manager) load() error {
	b, err := os.ReadFile(m.storePath)
	if err != nil {
		return nil // first run
	}
	var arr []*User
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	for _, u := range arr {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		m.users[u.Username] = u
	}
	return nil
}

// save 写入文件（全量）
func (m *Manager) save() error {
	arr := []*User{}
	for _, u := range m.users {
		arr = append(arr, u)
	}
	b, _ := json.MarshalIndent(arr, "", "  ")
	if err := os.MkdirAll(filepath.Dir(m.storePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.storePath, b, 0600)
}

// EnsureDefaultAdmin 如果没有用户则创建 admin 默认用户
func (m *Manager) EnsureDefaultAdmin(defaultPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.users) > 0 {
		return nil
	}
	if defaultPassword == "" {
		return errors.New("default admin password required on first run")
	}
	hash, err := hashPassword(defaultPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	m.users["admin"] = &User{ID: uuid.NewString(), Username: "admin", Password: hash, Scopes: allScopes, CreatedAt: now, UpdatedAt: now}
	return m.save()
}

// CreateUser 创建用户（用户名唯一）
func (m *Manager) CreateUser(username, password string, scopes []string) (*User, error) {
	if username == "" {
		return nil, errors.New("username required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[username]; exists {
		return nil, errors.New("user exists")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &User{ID: uuid.NewString(), Username: username, Password: hash, Scopes: dedupScopes(scopes), CreatedAt: now, UpdatedAt: now}
	m.users[username] = u
	if err := m.save(); err != nil {
		return nil, err
	}
	cpy := *u
	cpy.Password = ""
	return &cpy, nil
}

// GetUser 获取单个
func (m *Manager) GetUser(username string) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, false
	}
	// 复制避免外部修改
	copyU := *u
	copyU.Password = ""
	return &copyU, true
}

// ListUsers 返回所有用户（隐藏密码）
func (m *Manager) ListUsers() []*User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*User{}
	for _, u := range m.users {
		cpy := *u
		cpy.Password = ""
		out = append(out, &cpy)
	}
	return out
}

// UpdateUser 更新 scopes
func (m *Manager) UpdateUser(username string, scopes []string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	u.Scopes = dedupScopes(scopes)
	u.UpdatedAt = time.Now()
	if err := m.save(); err != nil {
		return nil, err
	}
	cpy := *u
	cpy.Password = ""
	return &cpy, nil
}

// DeleteUser 删除
func (m *Manager) DeleteUser(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return errors.New("not found")
	}
	delete(m.users, username)
	return m.save()
}

// ChangePassword 修改密码
func (m *Manager) ChangePassword(username, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return errors.New("not found")
	}
	if !checkPassword(u.Password, oldPassword) {
		return errors.New("old password incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	return m.save()
}

// Authenticate 验证用户名密码
func (m *Manager) Authenticate(username, password string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("invalid credentials")
	}
	if !checkPassword(u.Password, password) {
		return nil, errors.New("invalid credentials")
	}
	cpy := *u
	cpy.Password = ""
	return &cpy, nil
}

// GenerateToken 签发带过期时间的访问令牌
func (m *Manager) GenerateToken(username string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return "", errors.New("not found")
	}
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Scopes:   u.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secretKey)
}

// ParseToken 验证并返回 claims
func (m *Manager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// HasScope 判断用户是否具有 scope
func HasScope(scopes []string, required string) bool {
	for _, s := range scopes {
		if s == required {
			return true
		}
	}
	return false
}

// dedupScopes 去重并过滤非法 scope
func dedupScopes(in []string) []string {
	m := map[string]struct{}{}
	valid := map[string]struct{}{}
	for _, s := range allScopes {
		valid[s] = struct{}{}
	}
	out := []string{}
	for _, s := range in {
		if _, ok := valid[s]; ok {
			if _, seen := m[s]; !seen {
				m[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}
