package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/logger"
	"github.com/woozymasta/leafview/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Minify     bool   `short:"m" long:"minify" env:"MINIFY"         description:"Minify rendered markup"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Minify {
		cfg.Defaults.Minify = true
	}

	srvCtx := server.NewServerContext(cfg)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", srvCtx.HandleRender)
	mux.HandleFunc("/render", srvCtx.HandlePage)
	mux.HandleFunc("/", srvCtx.HandleIndex)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("config", opts.ConfigFile).
		Msg("Web server started")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
