package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mfranco-dev/tienda/config"
	"github.com/mfranco-dev/tienda/internal/adapter"
	"github.com/mfranco-dev/tienda/internal/adapter/httphandler"
	"github.com/mfranco-dev/tienda/internal/adapter/kafka"
	"github.com/mfranco-dev/tienda/internal/adapter/storage"
	"github.com/mfranco-dev/tienda/internal/core/service"
	"github.com/mfranco-dev/tienda/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type repositories struct {
	users     storage.UsersRepository
	orders    storage.OrdersRepository
	discounts storage.DiscountsRepository
}

type App struct {
	ctx         context.Context
	cfg         config.Config
	sqldb       storage.SQLDB
	repos       repositories
	orderEvents kafka.OrderEventsProducer
	httpServer  httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initOrderEventsProducer()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	app.sqldb = sqldb
	app.repos = repositories{
		users:     storage.NewUsersRepository(sqldb),
		orders:    storage.NewOrdersRepository(sqldb),
		discounts: storage.NewDiscountsRepository(sqldb),
	}
}

func (app *App) initOrderEventsProducer() {
	const op = "App.initOrderEventsProducer"

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	topic := app.cfg.Broker.Topics.OrderEvents
	serde, err := schema.NewSerdeOrderEventV1(
		app.ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	var tlsConfig *tls.Config
	if brokerTLS := app.cfg.Broker.TLS; brokerTLS.Enabled() {
		tlsConfig = adapter.MakeTLSConfig(
			brokerTLS.CACert, brokerTLS.ClientCert, brokerTLS.ClientKey,
		)
	}

	producer, err := kafka.NewOrderEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, app.cfg.Broker.SeedBrokers, topic, tlsConfig,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.orderEvents = producer
}

func (app *App) initHTTPServer() {
	if app.cfg.Payments.EventsSecret == "" {
		slog.Warn("payment events secret is not set, " +
			"webhook processing will be rejected")
	}

	ordersService := service.NewOrdersService(
		app.repos.users, app.repos.orders, app.orderEvents,
	)
	paymentsService := service.NewPaymentsService(
		app.repos.orders, app.orderEvents, app.cfg.Payments.EventsSecret,
	)
	discountsService := service.NewDiscountsService(app.repos.discounts)

	mux := http.NewServeMux()
	httphandler.RegisterOrders(mux, ordersService, ordersService, ordersService)
	httphandler.RegisterPayments(mux, paymentsService)
	httphandler.RegisterDiscounts(mux, discountsService)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.orderEvents.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
