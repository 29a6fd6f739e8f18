package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"masterbook/config"
	"masterbook/cron"
	"masterbook/database"
	calendarRepo "masterbook/database/repository/calendar"
	catalogRepo "masterbook/database/repository/catalog"
	deviceRepo "masterbook/database/repository/device"
	ledgerRepo "masterbook/database/repository/ledger"
	masterRepo "masterbook/database/repository/master"
	orderRepo "masterbook/database/repository/order"
	"masterbook/handlers"
	"masterbook/middleware"
	"masterbook/routes"
	"masterbook/services/booking"
	"masterbook/services/ledger"
	"masterbook/services/notification"
	"masterbook/services/scheduling"
	"masterbook/services/travel"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	// repositories.
	days := calendarRepo.NewMongoCalendarRepo()
	masters := masterRepo.NewMongoMasterRepo()
	catalog := catalogRepo.NewMongoServiceRepo()
	orders := orderRepo.NewMongoOrderRepo()
	shares := ledgerRepo.NewMongoShareRepo()
	devices := deviceRepo.NewMongoDeviceRepo()
	for name, ensure := range map[string]func() error{
		"calendar_days":  days.EnsureIndexes,
		"services":       catalog.EnsureIndexes,
		"masters":        masters.EnsureIndexes,
		"orders":         orders.EnsureIndexes,
		"pending_shares": shares.EnsureIndexes,
		"devices":        devices.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Fatal("main: failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// services.
	schedCfg := config.Scheduling()
	oracle := travel.NewCachedOracle(
		travel.NewGoogleOracle(config.AppConfig.GoogleAPIKey),
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.TravelCacheTTLMin)*time.Minute,
		time.Duration(schedCfg.SlotDurationMinutes)*time.Minute,
		logger,
	)
	reach := booking.NewReachability(schedCfg.UseReachabilityOracle, schedCfg.SlotDurationMinutes, oracle, orders, logger)
	matching := booking.NewMatchingService(masters, days, catalog, orders, reach, schedCfg, logger)

	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()
	dispatcher := notification.NewQueueDispatcher(queue, logger)

	payouts := ledger.NewDefaultLedger(shares)
	orderService := booking.NewOrderService(
		orders, days, catalog, matching, payouts, dispatcher,
		database.NewMongoTransactor(database.MongoClient),
		schedCfg.SlotDurationMinutes, logger,
	)
	calendarService := scheduling.NewCalendarService(days, masters, schedCfg.SlotDurationMinutes, logger)

	sender, err := notification.NewFCMSender(devices, utils.FCMClient)
	if err != nil {
		logger.Fatal("main: failed to initialize push sender", zap.Error(err))
	}
	worker := cron.InitPushWorker(sender, logger)

	rootCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	queueRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	utils.StartHealthMonitor(rootCtx, time.Minute, map[string]*redis.Client{
		"cache": utils.GetCacheClient(),
		"queue": queueRedis,
	}, database.MongoClient)

	calendarHandler := handlers.NewCalendarHandler(calendarService, logger)
	searchHandler := handlers.NewSearchHandler(matching, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	shareHandler := handlers.NewShareHandler(payouts, logger)
	deviceHandler := handlers.NewDeviceHandler(devices, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		PublishSlots: calendarHandler.PublishSlotsHandler,
		RemoveSlot:   calendarHandler.RemoveSlotHandler,
		GetDay:       calendarHandler.GetDayHandler,
		ListDays:     calendarHandler.ListDaysHandler,

		Search:         searchHandler.SearchHandler,
		SearchPinpoint: searchHandler.SearchPinpointHandler,

		CreateOrder:    orderHandler.CreateOrderHandler,
		GetOrder:       orderHandler.GetOrderHandler,
		CancelByMaster: orderHandler.CancelByMasterHandler,
		CancelByClient: orderHandler.CancelByClientHandler,
		GetShares:      shareHandler.GetSharesHandler,

		RegisterDevice: deviceHandler.RegisterDeviceHandler,

		Health: handlers.HealthHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	stopMonitor()
	if err := queueRedis.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close queue Redis client: %v", err)
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: failed to disconnect from MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
