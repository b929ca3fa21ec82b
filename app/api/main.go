package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/database/redisclient"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/metrics"
	bValidator "github.com/domaindao/goapi/base/validator"
	mmiddleware "github.com/domaindao/goapi/middleware"
	"github.com/domaindao/goapi/service/ens"
	"github.com/domaindao/goapi/service/query"
	"github.com/domaindao/goapi/service/redis"
	auction_delivery "github.com/domaindao/goapi/stores/auction/delivery/http"
	auction_repository "github.com/domaindao/goapi/stores/auction/repository"
	auction_usecase "github.com/domaindao/goapi/stores/auction/usecase"
	ens_delivery "github.com/domaindao/goapi/stores/ens/delivery/http"
	hc_delivery "github.com/domaindao/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/domaindao/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/domaindao/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/domaindao/goapi/stores/listing/delivery/http"
	listing_repository "github.com/domaindao/goapi/stores/listing/repository"
	listing_usecase "github.com/domaindao/goapi/stores/listing/usecase"
	offchain_delivery "github.com/domaindao/goapi/stores/offchain/delivery/http"
	offchain_repository "github.com/domaindao/goapi/stores/offchain/repository"
	offchain_usecase "github.com/domaindao/goapi/stores/offchain/usecase"
	offer_delivery "github.com/domaindao/goapi/stores/offer/delivery/http"
	offer_repository "github.com/domaindao/goapi/stores/offer/repository"
	offer_usecase "github.com/domaindao/goapi/stores/offer/usecase"
	statistic_delivery "github.com/domaindao/goapi/stores/statistic/delivery/http"
	statistic_repository "github.com/domaindao/goapi/stores/statistic/repository"
	statistic_usecase "github.com/domaindao/goapi/stores/statistic/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// ens on ethereum
	ensService := ens.New(viper.GetString("networks.ethereum.rpcUrl"), redisCache)

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := listing_repository.NewListingRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	bidRepo := auction_repository.NewBidRepo(q)
	offerRepo := offer_repository.NewOfferRepo(q)
	offchainRepo := offchain_repository.NewOffchainRepo(q)
	statisticRepo := statistic_repository.New(q, redisCache)

	hc := hc_usecase.New(hcRepo)
	listing := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
	})
	auction := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		Query:       q,
	})
	offer := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		OfferRepo: offerRepo,
	})
	offchain := offchain_usecase.New(&offchain_usecase.OffchainUseCaseCfg{
		OffchainRepo: offchainRepo,
		ListingRepo:  listingRepo,
		OfferRepo:    offerRepo,
	})
	statistic := statistic_usecase.New(statisticRepo)

	hc_delivery.New(e, hc)
	listing_delivery.New(e, listing)
	auction_delivery.New(e, auction)
	offer_delivery.New(e, offer)
	offchain_delivery.New(e, offchain)
	statistic_delivery.New(e, statistic)
	ens_delivery.New(e, ensService)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
