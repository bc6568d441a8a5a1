package main

import (
	"context"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newJWTIssuer(cfg config.Config) *jwtIssuer {
	return &jwtIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	//初期データ（admin・サンプル商品）
	if err := db.Seed(context.Background(), gormDB, log); err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg)
	orderIDs := usecase.NewTimestampOrderIDGenerator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, verifier, issuer, clock, log)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, log)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, log)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, orderIDs, log)
	orderUC := usecase.NewOrderUsecase(txManager, log)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(checkoutUC, orderUC),
	}

	//Server起動
	log.WithField("port", cfg.Port).Info("starting api server")
	if err := server.Start(cfg, handlers); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
