package main

import (
	"context"

	"enrollmate-backend/cmd/enrollmate-cli/commands"
	"enrollmate-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "enrollmate-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
