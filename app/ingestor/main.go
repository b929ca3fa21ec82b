package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	bCtx "github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/goroutine"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/metrics"
	"github.com/domaindao/goapi/domain/marketevent"
	mmiddleware "github.com/domaindao/goapi/middleware"
	"github.com/domaindao/goapi/service/query"
	auction_repository "github.com/domaindao/goapi/stores/auction/repository"
	auction_usecase "github.com/domaindao/goapi/stores/auction/usecase"
	listing_repository "github.com/domaindao/goapi/stores/listing/repository"
	listing_usecase "github.com/domaindao/goapi/stores/listing/usecase"
	marketevent_usecase "github.com/domaindao/goapi/stores/marketevent/usecase"
	offchain_repository "github.com/domaindao/goapi/stores/offchain/repository"
	offchain_usecase "github.com/domaindao/goapi/stores/offchain/usecase"
	offer_repository "github.com/domaindao/goapi/stores/offer/repository"
	offer_usecase "github.com/domaindao/goapi/stores/offer/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/ingestor/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// start server to pass cloud run health check
	startEchoServer()

	activeNetwork := viper.GetString("activeNetwork")
	networkInfo := viper.Sub("networks." + activeNetwork)
	wsUrl := networkInfo.GetString("wsUrl")
	marketplaceContract := networkInfo.GetString("marketplace")

	ctx.WithFields(log.Fields{
		"network":  activeNetwork,
		"wsUrl":    wsUrl,
		"contract": marketplaceContract,
	}).Info("config")

	ctx.Info("init mongo")
	q := initMongo()

	ctx.Info("connecting eth client")
	wsClient, err := ethclient.DialContext(ctx, wsUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": wsUrl,
		}).Panic("failed to connect rpc")
	}

	// repos
	listingRepo := listing_repository.NewListingRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	bidRepo := auction_repository.NewBidRepo(q)
	offerRepo := offer_repository.NewOfferRepo(q)
	offchainRepo := offchain_repository.NewOffchainRepo(q)

	// usecases
	listingUC := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
	})
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		Query:       q,
	})
	offerUC := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		OfferRepo: offerRepo,
	})
	offchainUC := offchain_usecase.New(&offchain_usecase.OffchainUseCaseCfg{
		OffchainRepo: offchainRepo,
		ListingRepo:  listingRepo,
		OfferRepo:    offerRepo,
	})
	marketeventUC := marketevent_usecase.New(&marketevent_usecase.MarketEventUseCaseCfg{
		ListingUC:  listingUC,
		AuctionUC:  auctionUC,
		OfferUC:    offerUC,
		OffchainUC: offchainUC,
		Metrics:    metrics.New("marketevent"),
	})

	events := make(chan marketevent.Event, 256)
	logs := make(chan types.Log, 256)
	errCh := make(chan error, 10)

	sub, err := wsClient.SubscribeFilterLogs(ctx, goethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(marketplaceContract)},
	}, logs)
	if err != nil {
		ctx.WithField("err", err).Panic("failed to subscribe logs")
	}

	blockTimes := newBlockTimeCache(wsClient)

	goroutine.RecoverableGo(func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				errCh <- err
				return
			case l := <-logs:
				blockTime, err := blockTimes.at(ctx, l.BlockNumber)
				if err != nil {
					ctx.WithFields(log.Fields{
						"err":         err,
						"blockNumber": l.BlockNumber,
					}).Error("failed to resolve block time")
					blockTime = time.Now()
				}
				ev, ok := marketevent_usecase.DecodeLog(l, blockTime)
				if !ok {
					continue
				}
				events <- ev
			}
		}
	})

	done := make(chan struct{})
	goroutine.RecoverableGo(func() {
		defer close(done)
		if err := marketeventUC.Run(ctx, events); err != nil {
			ctx.WithField("err", err).Error("event loop stopped with error")
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case err := <-errCh:
		log.Log().WithField("err", err).Error("subscription error")
	}

	sub.Unsubscribe()
	cancel()
	<-done
	log.Log().Info("shutdown ingestor successfully")
}

type blockTimeCache struct {
	client *ethclient.Client
	times  map[uint64]time.Time
}

func newBlockTimeCache(client *ethclient.Client) *blockTimeCache {
	return &blockTimeCache{
		client: client,
		times:  map[uint64]time.Time{},
	}
}

func (c *blockTimeCache) at(ctx bCtx.Ctx, number uint64) (time.Time, error) {
	if t, ok := c.times[number]; ok {
		return t, nil
	}
	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return time.Time{}, err
	}
	t := time.Unix(int64(header.Time), 0)
	if len(c.times) > 1024 {
		c.times = map[uint64]time.Time{}
	}
	c.times[number] = t
	return t, nil
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
