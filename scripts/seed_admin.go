// 创建初始管理员账号脚本
//
// 新注册的账号都是待审批学员，第一个管理员需要通过此脚本写入。
//
// 用法: go run scripts/seed_admin.go -username admin -email admin@example.com -password secret123
package main

import (
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/pkg/database"
	"baggage_quiz_backend/pkg/logger"
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	username := flag.String("username", "admin", "管理员用户名")
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", "", "管理员密码")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("必须提供 -email 和 -password")
	}
	if len(*password) < 6 {
		log.Fatal("密码至少 6 位")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var existing model.User
	if err := db.Where("username = ? OR email = ?", *username, *email).First(&existing).Error; err == nil {
		log.Fatalf("用户名或邮箱已存在 (id=%d)", existing.ID)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	now := time.Now()
	admin := &model.User{
		Username:      *username,
		Email:         *email,
		Password:      string(hashed),
		Role:          model.RoleAdmin,
		ApprovalState: model.ApprovalActive,
		ApprovedAt:    &now,
		CurrentLevel:  1,
	}

	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员创建成功: %s (id=%d)", admin.Username, admin.ID)
}
