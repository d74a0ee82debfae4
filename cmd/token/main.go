package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"mining_analytics/internal/platform/config"
	jwtmw "mining_analytics/internal/platform/jwt"
	"mining_analytics/internal/platform/logger"
)

// 管理APIを呼ぶためのJWTを発行して標準出力に書く。
func main() {
	config.LoadDotEnv()
	logger.Setup(logger.LoadConfig())

	subject := flag.String("sub", "admin", "token subject")
	role := flag.String("role", jwtmw.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	token, err := jwtmw.NewGenerator(secret, *ttl).GenerateToken(*subject, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}
	fmt.Println(token)
}
