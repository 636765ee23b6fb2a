package database

import (
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.CompletedLevel{},
		&model.TestRecord{},
		&model.UserIP{},
		&model.Level{},
		&model.Question{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaultLevels(db)

	return db, nil
}

// 默认关卡阶梯：5 个难度段，共 50 关。仅在空库时写入。
func seedDefaultLevels(db *gorm.DB) {
	var count int64
	db.Model(&model.Level{}).Count(&count)
	if count > 0 {
		return
	}

	bands := []struct {
		name         string
		passingScore int
		timeLimit    int
		questions    int
	}{
		{"Temel", 60, 15, 5},
		{"Orta", 70, 20, 8},
		{"İleri", 75, 25, 10},
		{"Uzman", 80, 30, 12},
		{"Master", 85, 35, 15},
	}

	for i := 0; i < 50; i++ {
		band := bands[i/10]
		level := &model.Level{
			Name:         fmt.Sprintf("%s Seviye %d", band.name, i+1),
			Level:        i + 1,
			PassingScore: band.passingScore,
			TimeLimit:    band.timeLimit,
			QuestionCnt:  band.questions,
			IsActive:     true,
		}
		db.Create(level)
	}
	log.Println("Seeded default level ladder")
}
