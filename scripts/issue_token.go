// 签发管理员令牌，用于运维或在没有认证服务的环境中调用比赛管理接口
//
// 用法: go run scripts/issue_token.go -user admin -role admin -ttl 24h

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"boca_backend/internal/config"
	"boca_backend/internal/util"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	username := flag.String("user", "admin", "令牌中的用户名")
	userID := flag.Uint("id", 1, "令牌中的用户ID")
	role := flag.String("role", util.RoleAdmin, "角色: admin 或 judge")
	ttl := flag.Duration("ttl", 24*time.Hour, "有效期")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret 未配置")
	}

	token, err := util.GenerateJWT(*userID, *username, *role, cfg.JWT.Secret, *ttl)
	if err != nil {
		log.Fatalf("签发失败: %v", err)
	}
	fmt.Println(token)
}
