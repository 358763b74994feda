// cmd/mcp-server/main.go: Standalone HTTP MCP server for computor
//
// Exposes the computor tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//   go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	computor "github.com/njchilds90/computor"
)

const (
	maxBodyBytes    = 1 << 20 // 1 MiB
	defaultPort     = 8080
	shutdownTimeout = 10 * time.Second
)

func main() {
	port := flag.Int("port", envPort(), "Port to listen on (env COMPUTOR_PORT)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	app := newApp(log)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("computor MCP server listening", "addr", addr)
	log.Info("routes", "tool", "POST /tool", "schema", "GET /schema", "health", "GET /health")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info("graceful shutdown initiated")
				return app.ShutdownWithContext(ctx)
			},
		},
	)
	exitCode := <-wait
	log.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}

func envPort() int {
	if p, err := strconv.Atoi(os.Getenv("COMPUTOR_PORT")); err == nil && p > 0 {
		return p
	}
	return defaultPort
}

func newApp(log *slog.Logger) *fiber.App {
	if log == nil {
		log = slog.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:               "computor MCP server",
		DisableStartupMessage: true,
		BodyLimit:             maxBodyBytes,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		Output: os.Stderr,
	}))

	app.Post("/tool", func(c *fiber.Ctx) error {
		dec := json.NewDecoder(bytes.NewReader(c.Body()))
		dec.DisallowUnknownFields()

		var req computor.ToolRequest
		if err := dec.Decode(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON: trailing data"})
		}

		resp := computor.HandleToolCall(req)
		if resp.Error != "" {
			log.Debug("tool call failed", "tool", req.Tool, "error", resp.Error)
		}
		return c.JSON(resp)
	})

	app.Get("/schema", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(computor.MCPToolSpec())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return app
}
