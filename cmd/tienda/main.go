package main

import (
	"context"
	"time"

	"github.com/mfranco-dev/tienda/config"
	"github.com/mfranco-dev/tienda/internal/app"
	"github.com/mfranco-dev/tienda/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	tiendaService := app.New(sigCtx, cfg)

	tiendaService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	tiendaService.Close(ctx)
}
