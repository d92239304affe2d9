package main

import (
	"context"
	"flag"
	"net/http"

	"enrollmate-backend/lib/configutil"
	"enrollmate-backend/lib/serviceutil"
	"enrollmate-backend/lib/telemetry"
	"enrollmate-backend/services/enrollmate"
	"enrollmate-backend/services/enrollmate/db"
)

type Config struct {
	Port     int                `json:"port"`
	Database configutil.Database `json:"database"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	err := telemetry.SetupFromEnv(ctx, "enrollmated")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if config.Port == 0 {
		config.Port = 8000
	}

	database, err := config.Database.OpenDB()
	if err != nil {
		serviceutil.Fatal("open database", err)
	}
	_, err = database.ExecContext(ctx, db.Schema)
	if err != nil {
		serviceutil.Fatal("migrate database", err)
	}

	mux := http.NewServeMux()
	enrollmate.NewService(ctx, database).RegisterRoutes(mux)

	go serviceutil.StartHttpServer(config.Port, mux)
	<-ctx.Done()
}
